package access

import (
	"errors"
	"sort"
	"time"
)

// ResourceType discriminates the three protected resource hierarchies.
type ResourceType string

// Known resource types.
const (
	TypeNavigation ResourceType = "navigation"
	TypeRoute      ResourceType = "route"
	TypeAPI        ResourceType = "api"
)

// ResourceTypes lists every type the engine maintains a forest for.
func ResourceTypes() []ResourceType {
	return []ResourceType{TypeNavigation, TypeRoute, TypeAPI}
}

// Role represents a named bundle of capabilities.
type Role struct {
	ID        int64
	Name      string
	Level     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capability represents an atomic permission token.
type Capability struct {
	ID          int64
	Name        string
	Category    string
	Description string
}

// RoleCapabilityAssignment ties a capability to a role.
type RoleCapabilityAssignment struct {
	RoleID       int64
	CapabilityID int64
	AssignedAt   time.Time
}

// UserRole links a user to a role membership.
type UserRole struct {
	UserID     int64
	RoleID     int64
	IsActive   bool
	AssignedAt time.Time
	AssignedBy int64
}

// User is the minimal identity record the resolver needs.
type User struct {
	ID       int64
	Email    string
	Name     string
	IsActive bool
}

// Resource is a protected navigation item, UI route or API endpoint.
type Resource struct {
	ID                 int64
	Type               ResourceType
	Path               string
	Name               string
	ParentID           *int64
	RequiredCapability *string
	SortOrder          int
	Metadata           map[string]string
}

// Method returns the HTTP method tag for api resources, empty otherwise.
func (r Resource) Method() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata["method"]
}

// Node is a resource with its ordered children.
type Node struct {
	Resource Resource
	Children []*Node
}

// Forest is an ordered list of root nodes of one resource type.
type Forest []*Node

// Walk visits every node depth first.
func (f Forest) Walk(fn func(*Node)) {
	walkNodes(f, fn)
}

func walkNodes(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
		walkNodes(n.Children, fn)
	}
}

// CapabilitySet is a user's effective capability membership set.
type CapabilitySet map[string]struct{}

// NewCapabilitySet builds a set from the given names.
func NewCapabilitySet(names ...string) CapabilitySet {
	set := make(CapabilitySet, len(names))
	for _, n := range names {
		set.Add(n)
	}
	return set
}

// Add inserts a capability name.
func (s CapabilitySet) Add(name string) {
	if name != "" {
		s[name] = struct{}{}
	}
}

// Has reports exact membership.
func (s CapabilitySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// HasAny reports whether the set intersects names.
func (s CapabilitySet) HasAny(names ...string) bool {
	for _, n := range names {
		if s.Has(n) {
			return true
		}
	}
	return false
}

// HasAll reports whether names is a subset of the set.
func (s CapabilitySet) HasAll(names ...string) bool {
	for _, n := range names {
		if !s.Has(n) {
			return false
		}
	}
	return true
}

// Names returns the sorted member names.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sentinel errors surfaced by the store, resolver and tree builder.
var (
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("access: not found")
	// ErrUserNotFound distinguishes a missing user from a user with no roles.
	ErrUserNotFound = errors.New("access: user not found")
	// ErrStoreUnavailable wraps backing-store failures. Callers must treat it
	// as "no capabilities", never as "all capabilities".
	ErrStoreUnavailable = errors.New("access: store unavailable")
	// ErrCycle indicates a parent cycle in a resource hierarchy.
	ErrCycle = errors.New("access: resource hierarchy contains a cycle")
	// ErrDanglingParent indicates a parent reference to a missing resource.
	ErrDanglingParent = errors.New("access: resource parent does not exist")
)
