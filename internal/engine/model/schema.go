package model

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Generic schema items registered by every schema.
const (
	RootName             = "$root"
	DocumentFragmentName = "$documentFragment"
	ContainerName        = "$container"
	BlockName            = "$block"
	BlockObjectName      = "$blockObject"
	InlineObjectName     = "$inlineObject"
)

// SchemaItemDefinition describes a model node type. Several definitions may
// contribute to one item: the first through Register, the rest through Extend.
type SchemaItemDefinition struct {
	// IsObject marks self-contained nodes that are not edited as text.
	IsObject bool

	// IsInline marks nodes that flow with text.
	IsInline bool

	// IsBlock marks block-level nodes.
	IsBlock bool

	// IsLimit marks nodes that content operations may not cross.
	IsLimit bool

	// AllowIn lists parents the item may be placed in.
	AllowIn []string

	// AllowWhere copies the allowed parents of the listed items.
	AllowWhere []string

	// AllowChildren lists items allowed inside this item.
	AllowChildren []string

	// AllowContentOf allows everything that is allowed in the listed items.
	AllowContentOf []string

	// AllowAttributes lists allowed attribute keys.
	AllowAttributes []string

	// AllowAttributesOf copies the allowed attributes of the listed items.
	AllowAttributesOf []string

	// InheritTypesFrom copies the is* flags of the listed items.
	InheritTypesFrom []string

	// InheritAllFrom is shorthand for AllowWhere, AllowContentOf,
	// AllowAttributesOf and InheritTypesFrom of a single item.
	InheritAllFrom string
}

// SchemaItem is the compiled form of a registered item.
type SchemaItem struct {
	Name       string
	IsObject   bool
	IsInline   bool
	IsBlock    bool
	IsLimit    bool
	AllowIn    []string
	Attributes []string
}

type compiledItem struct {
	name                                 string
	isObject, isInline, isBlock, isLimit bool
	allowIn                              map[string]bool
	allowAttributes                      map[string]bool
	allowWhere, allowContentOf           []string
	allowAttributesOf, inheritTypesFrom  []string
	allowChildren                        []string
}

// Schema holds the registered model item definitions.
type Schema struct {
	mu          sync.RWMutex
	definitions map[string][]SchemaItemDefinition
	order       []string
	compiled    map[string]*compiledItem
}

// NewSchema creates a schema with the generic items registered.
func NewSchema() *Schema {
	s := &Schema{definitions: make(map[string][]SchemaItemDefinition)}

	s.mustRegister(RootName, SchemaItemDefinition{IsLimit: true})
	s.mustRegister(DocumentFragmentName, SchemaItemDefinition{IsLimit: true, AllowContentOf: []string{RootName}})
	s.mustRegister(ContainerName, SchemaItemDefinition{AllowIn: []string{RootName, ContainerName}})
	s.mustRegister(BlockName, SchemaItemDefinition{AllowIn: []string{RootName, ContainerName}, IsBlock: true})
	s.mustRegister(BlockObjectName, SchemaItemDefinition{AllowWhere: []string{BlockName}, IsBlock: true, IsObject: true})
	s.mustRegister(TextName, SchemaItemDefinition{AllowIn: []string{BlockName}, IsInline: true})
	s.mustRegister(InlineObjectName, SchemaItemDefinition{
		AllowWhere:        []string{TextName},
		AllowAttributesOf: []string{TextName},
		IsInline:          true,
		IsObject:          true,
	})

	return s
}

func (s *Schema) mustRegister(name string, def SchemaItemDefinition) {
	if err := s.Register(name, def); err != nil {
		panic(err)
	}
}

// Register adds a new item. Registering a name twice fails with
// ErrSchemaItemExists.
func (s *Schema) Register(name string, def SchemaItemDefinition) error {
	if name == "" {
		return fmt.Errorf("%w: empty item name", ErrInvalidSchemaItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.definitions[name]; exists {
		return fmt.Errorf("schema item %q: %w", name, ErrSchemaItemExists)
	}
	s.definitions[name] = []SchemaItemDefinition{def}
	s.order = append(s.order, name)
	s.compiled = nil
	return nil
}

// Extend adds rules to an already registered item.
func (s *Schema) Extend(name string, def SchemaItemDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.definitions[name]; !exists {
		return fmt.Errorf("schema item %q: %w", name, ErrSchemaItemNotFound)
	}
	s.definitions[name] = append(s.definitions[name], def)
	s.compiled = nil
	return nil
}

// IsRegistered reports whether name is a registered item.
func (s *Schema) IsRegistered(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.definitions[name]
	return ok
}

// Names returns the registered item names in registration order.
func (s *Schema) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Item returns the compiled item, or false when not registered.
func (s *Schema) Item(name string) (SchemaItem, bool) {
	item := s.item(name)
	if item == nil {
		return SchemaItem{}, false
	}
	return SchemaItem{
		Name:       item.name,
		IsObject:   item.isObject,
		IsInline:   item.isInline,
		IsBlock:    item.isBlock,
		IsLimit:    item.isLimit,
		AllowIn:    slices.Sorted(maps.Keys(item.allowIn)),
		Attributes: slices.Sorted(maps.Keys(item.allowAttributes)),
	}, true
}

// IsObject reports whether name is an object item.
func (s *Schema) IsObject(name string) bool {
	item := s.item(name)
	return item != nil && item.isObject
}

// IsInline reports whether name is an inline item.
func (s *Schema) IsInline(name string) bool {
	item := s.item(name)
	return item != nil && item.isInline
}

// IsBlock reports whether name is a block item.
func (s *Schema) IsBlock(name string) bool {
	item := s.item(name)
	return item != nil && item.isBlock
}

// IsLimit reports whether name is a limit item. Objects are limits too.
func (s *Schema) IsLimit(name string) bool {
	item := s.item(name)
	return item != nil && (item.isLimit || item.isObject)
}

// CheckChild reports whether child may be placed directly in parent.
func (s *Schema) CheckChild(parent, child string) bool {
	item := s.item(child)
	if item == nil {
		return false
	}
	return item.allowIn[parent]
}

// CheckChildNode is CheckChild for concrete nodes. Document fragments and
// roots are checked by their schema names.
func (s *Schema) CheckChildNode(parent *Element, child Node) bool {
	if parent == nil {
		return false
	}
	return s.CheckChild(parent.Name(), child.Name())
}

// CheckAttribute reports whether attribute key is allowed on item name.
func (s *Schema) CheckAttribute(name, key string) bool {
	item := s.item(name)
	if item == nil {
		return false
	}
	return item.allowAttributes[key]
}

// FindAllowedParent walks up from pos and returns the first position at which
// child is allowed, stopping at limit elements.
func (s *Schema) FindAllowedParent(pos Position, child string) (Position, bool) {
	for p := pos; p.Parent != nil; {
		if s.CheckChild(p.Parent.Name(), child) {
			return p, true
		}
		if p.Parent.IsRoot() || s.IsLimit(p.Parent.Name()) || p.Parent.Parent() == nil {
			return Position{}, false
		}
		p = PositionAfter(p.Parent)
	}
	return Position{}, false
}

func (s *Schema) item(name string) *compiledItem {
	s.mu.RLock()
	compiled := s.compiled
	s.mu.RUnlock()

	if compiled == nil {
		compiled = s.compile()
	}
	return compiled[name]
}

// compile resolves all relational rules into flat allow sets.
func (s *Schema) compile() map[string]*compiledItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.compiled != nil {
		return s.compiled
	}

	items := make(map[string]*compiledItem, len(s.definitions))
	for _, name := range s.order {
		item := &compiledItem{
			name:            name,
			allowIn:         make(map[string]bool),
			allowAttributes: make(map[string]bool),
		}
		for _, def := range s.definitions[name] {
			item.isObject = item.isObject || def.IsObject
			item.isInline = item.isInline || def.IsInline
			item.isBlock = item.isBlock || def.IsBlock
			item.isLimit = item.isLimit || def.IsLimit
			for _, p := range def.AllowIn {
				item.allowIn[p] = true
			}
			for _, a := range def.AllowAttributes {
				item.allowAttributes[a] = true
			}
			item.allowWhere = append(item.allowWhere, def.AllowWhere...)
			item.allowContentOf = append(item.allowContentOf, def.AllowContentOf...)
			item.allowAttributesOf = append(item.allowAttributesOf, def.AllowAttributesOf...)
			item.inheritTypesFrom = append(item.inheritTypesFrom, def.InheritTypesFrom...)
			item.allowChildren = append(item.allowChildren, def.AllowChildren...)
			if def.InheritAllFrom != "" {
				item.allowWhere = append(item.allowWhere, def.InheritAllFrom)
				item.allowContentOf = append(item.allowContentOf, def.InheritAllFrom)
				item.allowAttributesOf = append(item.allowAttributesOf, def.InheritAllFrom)
				item.inheritTypesFrom = append(item.inheritTypesFrom, def.InheritAllFrom)
			}
		}
		items[name] = item
	}

	for _, item := range items {
		for _, childName := range item.allowChildren {
			if child := items[childName]; child != nil {
				child.allowIn[item.name] = true
			}
		}
	}

	// Relational rules reference each other, so iterate to a fixpoint.
	for changed := true; changed; {
		changed = false
		for _, item := range items {
			for _, src := range item.allowWhere {
				if other := items[src]; other != nil {
					changed = union(item.allowIn, other.allowIn) || changed
				}
			}
			for _, src := range item.allowAttributesOf {
				if other := items[src]; other != nil {
					changed = union(item.allowAttributes, other.allowAttributes) || changed
				}
			}
			for _, src := range item.allowContentOf {
				for _, candidate := range items {
					if candidate.allowIn[src] && !candidate.allowIn[item.name] {
						candidate.allowIn[item.name] = true
						changed = true
					}
				}
			}
			for _, src := range item.inheritTypesFrom {
				if other := items[src]; other != nil {
					before := [4]bool{item.isObject, item.isInline, item.isBlock, item.isLimit}
					item.isObject = item.isObject || other.isObject
					item.isInline = item.isInline || other.isInline
					item.isBlock = item.isBlock || other.isBlock
					item.isLimit = item.isLimit || other.isLimit
					if before != [4]bool{item.isObject, item.isInline, item.isBlock, item.isLimit} {
						changed = true
					}
				}
			}
		}
	}

	// Drop references to names that were never registered.
	for _, item := range items {
		for parent := range item.allowIn {
			if _, ok := items[parent]; !ok {
				delete(item.allowIn, parent)
			}
		}
	}

	s.compiled = items
	return items
}

func union(dst, src map[string]bool) bool {
	changed := false
	for k := range src {
		if !dst[k] {
			dst[k] = true
			changed = true
		}
	}
	return changed
}
