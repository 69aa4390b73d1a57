package domain

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Application groups all instances of one appName, keyed by instance id.
type Application struct {
	Name      string
	instances map[string]*InstanceInfo
}

// NewApplication creates an empty application.
func NewApplication(name string) *Application {
	return &Application{Name: strings.ToUpper(name), instances: make(map[string]*InstanceInfo)}
}

// Add inserts or replaces an instance.
func (a *Application) Add(in *InstanceInfo) {
	a.instances[in.InstanceID] = in
}

// Remove deletes an instance by id.
func (a *Application) Remove(id string) {
	delete(a.instances, id)
}

// Instance returns the instance with the given id.
func (a *Application) Instance(id string) (*InstanceInfo, bool) {
	in, ok := a.instances[id]
	return in, ok
}

// Instances returns the instances sorted by id.
func (a *Application) Instances() []*InstanceInfo {
	out := make([]*InstanceInfo, 0, len(a.instances))
	for _, in := range a.instances {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

// Size returns the number of instances.
func (a *Application) Size() int {
	return len(a.instances)
}

// Applications is the read-side aggregate of the registry: all applications plus a version
// counter and the reconcile hash used to validate delta fetches.
type Applications struct {
	Version  int64
	HashCode string
	apps     map[string]*Application
}

// NewApplications creates an empty aggregate.
func NewApplications() *Applications {
	return &Applications{apps: make(map[string]*Application)}
}

// Add inserts or replaces an instance under its application.
func (a *Applications) Add(in *InstanceInfo) {
	name := strings.ToUpper(in.AppName)
	app, ok := a.apps[name]
	if !ok {
		app = NewApplication(name)
		a.apps[name] = app
	}
	app.Add(in)
}

// Remove deletes an instance; an application left empty is dropped.
func (a *Applications) Remove(appName, id string) {
	name := strings.ToUpper(appName)
	app, ok := a.apps[name]
	if !ok {
		return
	}
	app.Remove(id)
	if app.Size() == 0 {
		delete(a.apps, name)
	}
}

// Application returns one application by name.
func (a *Applications) Application(name string) (*Application, bool) {
	app, ok := a.apps[strings.ToUpper(name)]
	return app, ok
}

// Instance returns one instance.
func (a *Applications) Instance(appName, id string) (*InstanceInfo, bool) {
	app, ok := a.Application(appName)
	if !ok {
		return nil, false
	}
	return app.Instance(id)
}

// List returns the applications sorted by name.
func (a *Applications) List() []*Application {
	out := make([]*Application, 0, len(a.apps))
	for _, app := range a.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllInstances returns every instance, ordered by application then id.
func (a *Applications) AllInstances() []*InstanceInfo {
	var out []*InstanceInfo
	for _, app := range a.List() {
		out = append(out, app.Instances()...)
	}
	return out
}

// Size returns the total number of instances.
func (a *Applications) Size() int {
	n := 0
	for _, app := range a.apps {
		n += app.Size()
	}
	return n
}

// Clone copies the aggregate structure. Instances are shared; they are immutable once admitted.
func (a *Applications) Clone() *Applications {
	out := NewApplications()
	out.Version = a.Version
	out.HashCode = a.HashCode
	for _, app := range a.apps {
		for _, in := range app.instances {
			out.Add(in)
		}
	}
	return out
}

// ApplyDelta merges a delta: ADDED and MODIFIED instances replace the local copy, DELETED
// instances are removed.
func (a *Applications) ApplyDelta(delta *Applications) {
	for _, in := range delta.AllInstances() {
		switch in.ActionType {
		case ActionDeleted:
			a.Remove(in.AppName, in.InstanceID)
		default:
			a.Add(in)
		}
	}
	a.Version = delta.Version
}

// StatusCounts counts instances per status.
func (a *Applications) StatusCounts() map[InstanceStatus]int {
	counts := make(map[InstanceStatus]int)
	for _, app := range a.apps {
		for _, in := range app.instances {
			counts[in.Status]++
		}
	}
	return counts
}

// ComputeHashCode returns the reconcile hash of the current content.
func (a *Applications) ComputeHashCode() string {
	return HashCodeFromCounts(a.StatusCounts())
}

// HashCodeFromCounts renders status counts as "STATUS_count_" pairs sorted by status,
// e.g. "DOWN_1_UP_2_". Zero counts are omitted.
func HashCodeFromCounts(counts map[InstanceStatus]int) string {
	statuses := make([]string, 0, len(counts))
	for s, n := range counts {
		if n > 0 {
			statuses = append(statuses, string(s))
		}
	}
	slices.Sort(statuses)
	var b strings.Builder
	for _, s := range statuses {
		b.WriteString(s)
		b.WriteString("_")
		b.WriteString(strconv.Itoa(counts[InstanceStatus(s)]))
		b.WriteString("_")
	}
	return b.String()
}

// Filter returns the instances matching the interests.
func (a *Applications) Filter(interests Interests) []*InstanceInfo {
	var out []*InstanceInfo
	for _, in := range a.AllInstances() {
		if interests.Matches(in) {
			out = append(out, in)
		}
	}
	return out
}
