package customers

import (
	"sort"

	"github.com/google/uuid"
)

// Customer is the aggregate root for a contact the platform dials.
//
// Update model: customers are replaced wholesale, not patched. Callers build
// a full replacement (same CustomerID, new fields/variables) and Save it.
//
// The variable set is deliberately unexported; all access goes through the
// methods below so copies of a Customer never share the backing map.
type Customer struct {
	CustomerID  string
	Name        string
	PhoneNumber string

	variables map[string]Variable
}

// Variable is a customer-scoped key/value pair used to parameterize calls.
// The ID exists only for persistence row identity; lookup is always by Key.
type Variable struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// New creates a customer with a fresh id and no variables.
func New(name, phoneNumber string) Customer {
	return Customer{
		CustomerID:  uuid.NewString(),
		Name:        name,
		PhoneNumber: phoneNumber,
		variables:   map[string]Variable{},
	}
}

// Restore rebuilds a customer from stored state, keeping variable ids intact.
func Restore(customerID, name, phoneNumber string, variables []Variable) Customer {
	c := Customer{
		CustomerID:  customerID,
		Name:        name,
		PhoneNumber: phoneNumber,
		variables:   make(map[string]Variable, len(variables)),
	}
	for _, v := range variables {
		c.variables[v.Key] = v
	}
	return c
}

// Variable returns the variable stored under key, if any.
// Keys are case-sensitive exact strings.
func (c Customer) Variable(key string) (Variable, bool) {
	v, ok := c.variables[key]
	return v, ok
}

// SetVariable creates or overwrites the variable under key.
// Every set mints a new variable identity; the row for a replaced key is
// rewritten on the next Save.
func (c *Customer) SetVariable(key, value string) Variable {
	if c.variables == nil {
		c.variables = map[string]Variable{}
	}
	v := Variable{
		ID:         uuid.NewString(),
		CustomerID: c.CustomerID,
		Key:        key,
		Value:      value,
	}
	c.variables[key] = v
	return v
}

// RemoveVariable deletes the variable under key and reports whether it existed.
func (c *Customer) RemoveVariable(key string) bool {
	if _, ok := c.variables[key]; !ok {
		return false
	}
	delete(c.variables, key)
	return true
}

// Variables returns a snapshot of all variables, sorted by key for stable
// output. Later Set/Remove calls do not affect a snapshot already taken.
func (c Customer) Variables() []Variable {
	out := make([]Variable, 0, len(c.variables))
	for _, v := range c.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (c Customer) clone() Customer {
	return Restore(c.CustomerID, c.Name, c.PhoneNumber, c.Variables())
}
