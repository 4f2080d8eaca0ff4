package netmodel

// mergeable is the contract a container element must satisfy: a unique
// identity and an in-place merge with another element of the same identity.
type mergeable[T any] interface {
	Identity() string
	Merge(other T) error
}

// Set is an identity-keyed container with merge-on-insert semantics.
// Iteration follows insertion order for deterministic output, but the
// container is conceptually an unordered set keyed by name and correctness
// must never depend on the order.
//
// Set is not safe for concurrent mutation.
type Set[T mergeable[T]] struct {
	objects map[string]T
	order   []string
}

// NewSet returns an empty Set.
func NewSet[T mergeable[T]]() *Set[T] {
	return &Set[T]{objects: make(map[string]T)}
}

// Add inserts obj, or merges it into the existing object when its identity
// is already present. A failed merge leaves the container unchanged.
func (s *Set[T]) Add(obj T) error {
	name := obj.Identity()
	if existing, ok := s.objects[name]; ok {
		return existing.Merge(obj)
	}
	s.objects[name] = obj
	s.order = append(s.order, name)
	return nil
}

// Get returns the object with the given identity.
func (s *Set[T]) Get(name string) (T, bool) {
	obj, ok := s.objects[name]
	return obj, ok
}

// Has reports whether an object with the given identity is present.
func (s *Set[T]) Has(name string) bool {
	_, ok := s.objects[name]
	return ok
}

// Delete removes the object with the given identity, if present.
func (s *Set[T]) Delete(name string) {
	if _, ok := s.objects[name]; !ok {
		return
	}
	delete(s.objects, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of objects in the set.
func (s *Set[T]) Len() int { return len(s.objects) }

// Names returns the identities in insertion order.
func (s *Set[T]) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns the objects in insertion order.
func (s *Set[T]) All() []T {
	out := make([]T, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.objects[name])
	}
	return out
}

// The three container variants of the network aggregate.
type (
	DomainSet      = Set[*Domain]
	IPv4AddressSet = Set[*IPv4Address]
	NodeSet        = Set[*Node]
)
