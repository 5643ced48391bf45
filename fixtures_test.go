package entity

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type Customer struct {
	DBTable DBTable   `name:"customers" schema:"dbo"`
	ID      int       `db:"id,key auto"`
	Name    string    `db:"name"`
	Email   string    `db:"email,unique"`
	Active  bool
	Joined  time.Time `db:"joined_at"`
	Score   int64
	Ref     uuid.UUID `db:"ref,type=uniqueidentifier"`
	Secret  string    `db:"-"`
	secret  string
}

type Person struct {
	ID     int
	Name   string
	Active bool
	Note   string `db:"-"`
}

type Audit struct {
	CreatedBy string
	CreatedAt time.Time
}

type Report struct {
	Audit
	ID    int32
	Title null.String
	Kind  reflect.Type
	Size  *int64
}
