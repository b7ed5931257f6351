package gen

import (
	"slices"
	"strings"
)

// Action is a data operation that can be allow-listed in the configuration.
type Action string

// Actions accepted by generateModelActions.
const (
	FindFirst         Action = "findFirst"
	FindFirstOrThrow  Action = "findFirstOrThrow"
	FindMany          Action = "findMany"
	FindUnique        Action = "findUnique"
	FindUniqueOrThrow Action = "findUniqueOrThrow"
	Create            Action = "create"
	CreateMany        Action = "createMany"
	Update            Action = "update"
	UpdateMany        Action = "updateMany"
	Upsert            Action = "upsert"
	Delete            Action = "delete"
	DeleteMany        Action = "deleteMany"
	Aggregate         Action = "aggregate"
	GroupBy           Action = "groupBy"
	Count             Action = "count"
	FindRaw           Action = "findRaw"
	AggregateRaw      Action = "aggregateRaw"
)

// AllActions lists every action in declaration order. It is the default
// allow-list.
var AllActions = []Action{
	FindFirst,
	FindFirstOrThrow,
	FindMany,
	FindUnique,
	FindUniqueOrThrow,
	Create,
	CreateMany,
	Update,
	UpdateMany,
	Upsert,
	Delete,
	DeleteMany,
	Aggregate,
	GroupBy,
	Count,
	FindRaw,
	AggregateRaw,
}

// ParseAction returns the Action named s.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.TrimSpace(s))
	return a, slices.Contains(AllActions, a)
}

// ProcedureKind classifies a procedure as a read or a write.
type ProcedureKind string

// Procedure kinds.
const (
	Query    ProcedureKind = "query"
	Mutation ProcedureKind = "mutation"
)

// operation is one row of the operation mapping table. The table is keyed by
// the introspected operation kind with the "OrThrow" suffix removed.
type operation struct {
	schema string // validation type is <Entity><schema>Schema.
	kind   ProcedureKind
}

var operations = map[string]operation{
	"findUnique":   {schema: "FindUnique", kind: Query},
	"findFirst":    {schema: "FindFirst", kind: Query},
	"findMany":     {schema: "FindMany", kind: Query},
	"findRaw":      {schema: "FindRawObject", kind: Query},
	"aggregate":    {schema: "Aggregate", kind: Query},
	"aggregateRaw": {schema: "AggregateRawObject", kind: Query},
	"groupBy":      {schema: "GroupBy", kind: Query},
	"count":        {schema: "Count", kind: Query},
	"createOne":    {schema: "CreateOne", kind: Mutation},
	"createMany":   {schema: "CreateMany", kind: Mutation},
	"updateOne":    {schema: "UpdateOne", kind: Mutation},
	"updateMany":   {schema: "UpdateMany", kind: Mutation},
	"deleteOne":    {schema: "DeleteOne", kind: Mutation},
	"deleteMany":   {schema: "DeleteMany", kind: Mutation},
	"upsertOne":    {schema: "Upsert", kind: Mutation},
}

// Operation is one entry of an entity's introspected operation mapping:
// the operation kind (e.g. "createOne") and the generated name for the
// entity (e.g. "createOneUser").
type Operation struct {
	Kind string
	Name string
}

// BaseKind returns the kind without its "OrThrow" suffix. Schema imports and
// the mapping table are keyed by it.
func (o Operation) BaseKind() string {
	return strings.Replace(o.Kind, "OrThrow", "", 1)
}

// Action returns the allow-list action the operation is matched against:
// the kind with "One" and then "OrThrow" removed.
func (o Operation) Action() Action {
	k := strings.Replace(o.Kind, "One", "", 1)
	return Action(strings.Replace(k, "OrThrow", "", 1))
}

// Method returns the data accessor method the procedure calls.
func (o Operation) Method() string {
	return strings.Replace(o.Kind, "One", "", 1)
}

// ProcedureKind reports whether the operation is exposed as a query or a
// mutation. Unknown kinds are queries.
func (o Operation) ProcedureKind() ProcedureKind {
	if op, ok := operations[o.BaseKind()]; ok {
		return op.kind
	}
	return Query
}

// InputSchema returns the name of the validation type for entity, or false if
// the operation has no validation type.
func (o Operation) InputSchema(entity string) (string, bool) {
	op, ok := operations[o.BaseKind()]
	if !ok {
		return "", false
	}
	return entity + op.schema + "Schema", true
}

// SchemaModule returns the output-relative module (without extension) that
// exports the validation type, as seen from the routers directory.
func (o Operation) SchemaModule(entity string) string {
	return "../schemas/" + o.BaseKind() + entity + ".schema"
}
