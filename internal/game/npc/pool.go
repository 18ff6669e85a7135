package npc

// Pool is the monster pool partitioned by danger level.
type Pool struct {
	all   []*Template
	tiers map[DangerLevel][]*Template
}

// NewPool indexes templates by danger level, preserving input order.
//
// Precondition: every template has passed Validate.
func NewPool(templates []*Template) *Pool {
	p := &Pool{tiers: make(map[DangerLevel][]*Template)}
	for _, t := range templates {
		if t == nil {
			continue
		}
		p.all = append(p.all, t)
		p.tiers[t.DangerLevel] = append(p.tiers[t.DangerLevel], t)
	}
	return p
}

// Tier returns the templates at level d. The slice must not be modified.
func (p *Pool) Tier(d DangerLevel) []*Template {
	return p.tiers[d]
}

// All returns every template in load order. The slice must not be modified.
func (p *Pool) All() []*Template { return p.all }

// Len returns the number of templates.
func (p *Pool) Len() int { return len(p.all) }

// ByID returns the template with the given ID.
func (p *Pool) ByID(id string) (*Template, bool) {
	for _, t := range p.all {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}
