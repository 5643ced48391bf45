package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSource reads MongoDB collections as Tables. It implements Querier.
type MongoSource struct {
	db *mongo.Database
}

func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{db: db}
}

// QueryTable runs a find. query is a collection name, optionally followed by
// a filter in extended JSON:
//
//	users {"active": true}
//
// Columns are the document keys in order of first appearance; keys missing
// from a document are nil in its row.
func (m *MongoSource) QueryTable(ctx context.Context, query string) (Table, error) {
	collName, filter, err := parseMongoQuery(query)
	if err != nil {
		return Table{}, err
	}

	cur, err := m.db.Collection(collName).Find(ctx, filter)
	if err != nil {
		return Table{}, wrapMongoError(err)
	}
	defer cur.Close(ctx)

	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return Table{}, wrapMongoError(err)
	}

	return documentsToTable(docs), nil
}

// InsertEntity inserts entity into collName, or into the entity's table
// name when collName is empty.
func (m *MongoSource) InsertEntity(ctx context.Context, collName string, entity any) error {
	doc, err := Document(entity)
	if err != nil {
		return err
	}

	if collName == "" {
		et, err := DescribeOf(entity)
		if err != nil {
			return err
		}
		collName = et.TableName()
	}

	if _, err := m.db.Collection(collName).InsertOne(ctx, doc); err != nil {
		return wrapMongoError(err)
	}

	return nil
}

// Document converts entity into an ordered BSON document keyed by the
// effective column names. Ignored fields are left out.
func Document(entity any) (bson.D, error) {
	v, et, err := entityValue(entity)
	if err != nil {
		return nil, err
	}

	doc := bson.D{}
	for _, p := range et.Mapped() {
		val, err := argValue(v.FieldByIndex(p.Index))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", p.Name, err)
		}

		doc = append(doc, bson.E{Key: p.Column, Value: val})
	}

	return doc, nil
}

func parseMongoQuery(query string) (string, bson.D, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil, fmt.Errorf("%w. empty mongo query", ErrQueryFormat)
	}

	collName, rest := query, ""
	if i := strings.IndexFunc(query, unicode.IsSpace); i >= 0 {
		collName, rest = query[:i], strings.TrimSpace(query[i:])
	}

	filter := bson.D{}
	if rest != "" {
		if err := bson.UnmarshalExtJSON([]byte(rest), false, &filter); err != nil {
			return "", nil, fmt.Errorf("%w. invalid filter for %s: %s", ErrQueryFormat, collName, err)
		}
	}

	return collName, filter, nil
}

func documentsToTable(docs []bson.D) Table {
	var tb Table
	index := make(map[string]int)
	for _, doc := range docs {
		for _, e := range doc {
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(tb.Columns)
				tb.Columns = append(tb.Columns, e.Key)
			}
		}
	}

	for _, doc := range docs {
		row := make([]any, len(tb.Columns))
		for _, e := range doc {
			row[index[e.Key]] = mongoCell(e.Value)
		}
		tb.Rows = append(tb.Rows, row)
	}

	return tb
}

func mongoCell(v any) any {
	switch c := v.(type) {
	case primitive.ObjectID:
		return c.Hex()
	case primitive.DateTime:
		return c.Time().UTC()
	case primitive.Decimal128:
		return c.String()
	case primitive.Binary:
		return c.Data
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}

func wrapMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w. %s", ErrKeyAlreadyExists, err.Error())
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w. %s", ErrKeyNotFound, err.Error())
	}

	return err
}
