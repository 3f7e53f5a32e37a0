package domain

// Collection is one of the four top-level financial groupings. It acts as a
// namespace for categories rather than a stored entity of its own.
type Collection string

const (
	CollectionReceitas      Collection = "receitas"
	CollectionDespesas      Collection = "despesas"
	CollectionCampanhas     Collection = "campanhas"
	CollectionDepartamentos Collection = "departamentos"
)

// Collections lists every valid collection in a stable order.
func Collections() []Collection {
	return []Collection{
		CollectionReceitas,
		CollectionDespesas,
		CollectionCampanhas,
		CollectionDepartamentos,
	}
}

// ParseCollection validates a collection name coming from the outside
// (URL segments, request bodies). Unknown names are rejected here so the
// rest of the code only ever sees the closed set.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionReceitas, CollectionDespesas, CollectionCampanhas, CollectionDepartamentos:
		return Collection(s), nil
	}
	return "", ErrInvalidCollection
}

func (c Collection) String() string {
	return string(c)
}
