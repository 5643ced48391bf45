package entity

// SQLInsertGenerator lets an entity provide its own parameterized insert
// parts. InsertParts uses it instead of reflection when implemented.
type SQLInsertGenerator interface {
	GenerateInsertParts() (columns []string, placeholder []string, args []any)
}
