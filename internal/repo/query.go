package repo

import "errors"

var ErrMultipleOperationsProvided = errors.New("multiple operations provided")

type (
	ComparisonOp   string
	OrderDirection string
	QueryField     = string
)

const (
	Equal       ComparisonOp = "="
	NotEqual    ComparisonOp = "!="
	GreaterThan ComparisonOp = ">"
	LessThan    ComparisonOp = "<"

	Desc OrderDirection = "desc"
	Asc  OrderDirection = "asc"

	IDField                  QueryField = "id"
	TokenField               QueryField = "token"
	ExpiresAtField           QueryField = "expires_at"
	DomainField              QueryField = "domain"
	TenantIDField            QueryField = "tenant_id"
	OwnerIDField             QueryField = "owner_id"
	EmailField               QueryField = "email"
	SlugField                QueryField = "slug"
	StatusField              QueryField = "status"
	SuspendedAtField         QueryField = "suspended_at"
	SuspendedReasonField     QueryField = "suspended_reason"
	SubscriptionStatusField  QueryField = "subscription_status"
	PlanIDField              QueryField = "plan_id"
	ActiveField              QueryField = "active"
	NameField                QueryField = "name"
	CreatedField             QueryField = "created_at"
	UsageResetDateField      QueryField = "usage_reset_date"
	ProductCountField        QueryField = "product_count"
	OrderCountThisMonthField QueryField = "order_count_this_month"
	StorageUsedMBField       QueryField = "storage_used_mb"
	SortOrderField           QueryField = "sort_order"
)

type Key struct {
	Value     any
	Operation ComparisonOp
}

// CompositeKeyEntry represents an entry in a CompositeKey,
// containing a Key and an optional error for validation or processing.
type CompositeKeyEntry struct {
	Key Key
	Err error
}

// CompositeKey is a collection of QueryField and matching value that are collectively used to find a record.
// IsStrict false joins the conditions with OR instead of AND.
type CompositeKey struct {
	IsStrict bool
	Conds    []Condition
}

type Condition struct {
	Field QueryField
	Value CompositeKeyEntry
}

// NewCompositeKey creates and returns a new CompositeKey.
func NewCompositeKey() CompositeKey {
	return CompositeKey{
		IsStrict: true,
		Conds:    []Condition{},
	}
}

// Where adds a condition to the CompositeKey.
func (c CompositeKey) Where(q QueryField, v any,
	options ...func(v any) Key,
) CompositeKey {
	switch {
	case len(options) == 0:
		c.Conds = append(c.Conds,
			Condition{Field: q, Value: CompositeKeyEntry{Key: Key{Value: v, Operation: Equal}}})
	case len(options) > 1:
		c.Conds = append(c.Conds,
			Condition{Field: q, Value: CompositeKeyEntry{Err: ErrMultipleOperationsProvided}})
	default:
		c.Conds = append(c.Conds,
			Condition{Field: q, Value: CompositeKeyEntry{Key: options[0](v)}})
	}

	return c
}

func NotEq(v any) Key {
	return Key{Value: v, Operation: NotEqual}
}

func Gt(v any) Key {
	return Key{Value: v, Operation: GreaterThan}
}

func Lt(v any) Key {
	return Key{Value: v, Operation: LessThan}
}

type CompositeKeyGroup struct {
	CompositeKey CompositeKey
	IsStrict     bool
}

func NewCompositeKeyGroup(key CompositeKey) CompositeKeyGroup {
	return CompositeKeyGroup{
		CompositeKey: key,
		IsStrict:     true,
	}
}

type Preload []string

// Update controls which fields a Patch writes. If All is true every field is
// written; otherwise only the listed fields; with neither, only non-zero
// values are written.
type Update struct {
	Fields []QueryField
	All    bool
}

type OrderField struct {
	Field     QueryField
	Direction OrderDirection
}

type Query struct {
	// Limit is a max size of returned elements.
	Limit int

	Offset int

	// CompositeKeyGroup forms the where part of the Query
	CompositeKeyGroup []CompositeKeyGroup

	// PreloadModel specifies which associations to preload.
	PreloadModel Preload

	UpdateFields Update

	OrderFields []OrderField
}

// NewQuery creates and returns a new empty query.
func NewQuery() *Query {
	return &Query{
		CompositeKeyGroup: make([]CompositeKeyGroup, 0),
		UpdateFields: Update{
			Fields: make([]QueryField, 0),
			All:    false,
		},
	}
}

func (q *Query) Where(conds ...CompositeKeyGroup) *Query {
	q.CompositeKeyGroup = append(q.CompositeKeyGroup, conds...)
	return q
}

func (q *Query) Preload(model Preload) *Query {
	q.PreloadModel = append(q.PreloadModel, model...)
	return q
}

func (q *Query) UpdateAll(b bool) *Query {
	q.UpdateFields.All = b
	return q
}

func (q *Query) Update(fields ...QueryField) *Query {
	q.UpdateFields.Fields = append(q.UpdateFields.Fields, fields...)
	return q
}

// SetLimit sets the limit value for the query.
func (q *Query) SetLimit(limit int) *Query {
	q.Limit = limit
	return q
}

// SetOffset sets the offset value for the query.
func (q *Query) SetOffset(offset int) *Query {
	q.Offset = offset
	return q
}

func (q *Query) Order(orderFields ...OrderField) *Query {
	q.OrderFields = append(q.OrderFields, orderFields...)
	return q
}
