package ledger

import (
	"strings"

	"github.com/google/uuid"
)

// Kind is the category of entity an endpoint tag refers to.
type Kind string

const (
	KindIncome  Kind = "income"
	KindAccount Kind = "account"
	KindExpense Kind = "expense"
	KindUnknown Kind = "unknown"
)

var knownKinds = [...]Kind{KindIncome, KindAccount, KindExpense}

// Endpoint is a parsed endpoint tag.
//
// Two tag forms are understood: "<kind>-<name>" references an entity by name and
// "<kind>:<uuid>" references it by id. Exactly one of Name or ID is meaningful;
// ID is uuid.Nil for the name form.
type Endpoint struct {
	Kind Kind
	Name string
	ID   uuid.UUID
}

// ParseEndpoint splits a tag into its kind and reference. Tags without a known
// kind prefix yield KindUnknown with Name set to the raw tag.
func ParseEndpoint(tag string) Endpoint {
	for _, k := range knownKinds {
		p := string(k)
		if len(tag) <= len(p) || !strings.HasPrefix(tag, p) {
			continue
		}
		rest := tag[len(p)+1:]
		switch tag[len(p)] {
		case '-':
			return Endpoint{Kind: k, Name: rest}
		case ':':
			if id, err := uuid.Parse(rest); err == nil {
				return Endpoint{Kind: k, ID: id}
			}
		}
	}
	return Endpoint{Kind: KindUnknown, Name: tag}
}

// ByID reports whether the endpoint uses the id form.
func (e Endpoint) ByID() bool { return e.ID != uuid.Nil }

// Refers reports whether the endpoint points at the entity of kind k with the given id and name.
func (e Endpoint) Refers(k Kind, id uuid.UUID, name string) bool {
	if e.Kind != k || k == KindUnknown {
		return false
	}
	if e.ByID() {
		return e.ID == id
	}
	return e.Name == name
}

// String renders the canonical tag for the endpoint.
func (e Endpoint) String() string {
	switch {
	case e.Kind == KindUnknown:
		return e.Name
	case e.ByID():
		return IDTag(e.Kind, e.ID)
	default:
		return NameTag(e.Kind, e.Name)
	}
}

// NameTag builds a "<kind>-<name>" tag.
func NameTag(k Kind, name string) string { return string(k) + "-" + name }

// IDTag builds a "<kind>:<uuid>" tag.
func IDTag(k Kind, id uuid.UUID) string { return string(k) + ":" + id.String() }
