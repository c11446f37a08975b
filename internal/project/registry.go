package project

// Registry holds the projects loaded at startup. It is never mutated after
// NewRegistry returns, so concurrent reads need no locking.
type Registry struct {
	names    []string
	projects map[string]*Project
}

// NewRegistry creates a registry preserving the order of projects.
// Later duplicates of a name are ignored.
func NewRegistry(projects []*Project) *Registry {
	r := &Registry{
		names:    make([]string, 0, len(projects)),
		projects: make(map[string]*Project, len(projects)),
	}
	for _, p := range projects {
		if _, exists := r.projects[p.Name]; exists {
			continue
		}
		r.projects[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	return r
}

// Description returns the configured description of a project, or "" if
// the project is unknown or has none.
func (r *Registry) Description(name string) string {
	if project, exists := r.projects[name]; exists {
		return project.Description
	}
	return ""
}

// Contains reports whether name is a registered project. Matching is case-sensitive.
func (r *Registry) Contains(name string) bool {
	_, exists := r.projects[name]
	return exists
}

// List returns all project names in load order
func (r *Registry) List() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Count returns the number of projects
func (r *Registry) Count() int {
	return len(r.names)
}
