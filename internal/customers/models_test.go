package customers

import "testing"

func TestNew_GeneratesID(t *testing.T) {
	c := New("Acme", "000")
	if c.CustomerID == "" {
		t.Fatalf("expected generated customer id")
	}
	if c.Name != "Acme" || c.PhoneNumber != "000" {
		t.Fatalf("unexpected fields: %+v", c)
	}
	if len(c.Variables()) != 0 {
		t.Fatalf("expected no variables on a fresh customer")
	}
}

func TestSetVariable_OverwritesSameKey(t *testing.T) {
	c := New("Acme", "")

	first := c.SetVariable("plan", "basic")
	second := c.SetVariable("plan", "premium")

	// Same key, new value, new variable identity.
	if first.ID == second.ID {
		t.Fatalf("expected a fresh variable id on overwrite")
	}

	vars := c.Variables()
	if len(vars) != 1 {
		t.Fatalf("expected exactly one variable, got %d", len(vars))
	}
	if vars[0].Key != "plan" || vars[0].Value != "premium" {
		t.Fatalf("expected latest value, got %+v", vars[0])
	}

	got, ok := c.Variable("plan")
	if !ok || got.Value != "premium" {
		t.Fatalf("expected lookup to return latest value, got %+v ok=%v", got, ok)
	}
}

func TestVariable_KeysAreCaseSensitive(t *testing.T) {
	c := New("Acme", "")
	c.SetVariable("Plan", "a")

	if _, ok := c.Variable("plan"); ok {
		t.Fatalf("expected exact-match lookup only")
	}
	if _, ok := c.Variable("Plan"); !ok {
		t.Fatalf("expected exact key to resolve")
	}
}

func TestRemoveVariable(t *testing.T) {
	c := New("Acme", "")
	c.SetVariable("plan", "basic")

	if !c.RemoveVariable("plan") {
		t.Fatalf("expected removal of existing key to report true")
	}
	if c.RemoveVariable("plan") {
		t.Fatalf("expected removal of absent key to report false")
	}
	if _, ok := c.Variable("plan"); ok {
		t.Fatalf("expected variable gone after removal")
	}
}

func TestVariables_SnapshotSemantics(t *testing.T) {
	c := New("Acme", "")
	c.SetVariable("a", "1")

	snapshot := c.Variables()

	c.SetVariable("b", "2")
	c.RemoveVariable("a")

	if len(snapshot) != 1 || snapshot[0].Key != "a" || snapshot[0].Value != "1" {
		t.Fatalf("later mutations must not affect a taken snapshot: %+v", snapshot)
	}
}

func TestRestore_KeepsVariableIdentity(t *testing.T) {
	stored := []Variable{
		{ID: "v-1", CustomerID: "c-1", Key: "plan", Value: "basic"},
		{ID: "v-2", CustomerID: "c-1", Key: "region", Value: "eu"},
	}
	c := Restore("c-1", "Acme", "", stored)

	got, ok := c.Variable("plan")
	if !ok || got.ID != "v-1" {
		t.Fatalf("expected stored variable id to survive restore, got %+v", got)
	}
	if len(c.Variables()) != 2 {
		t.Fatalf("expected both variables restored")
	}
}

func TestClone_DoesNotShareVariables(t *testing.T) {
	c := New("Acme", "")
	c.SetVariable("plan", "basic")

	cp := c.clone()
	cp.SetVariable("plan", "premium")

	got, _ := c.Variable("plan")
	if got.Value != "basic" {
		t.Fatalf("clone mutation leaked into the original: %+v", got)
	}
}
