package sortstate

import (
	"context"
	"reflect"
	"testing"
)

type recorder struct {
	states []State
}

func (r *recorder) Sort(_ context.Context, s State) {
	r.states = append(r.states, s)
}

func specs() []ColumnSpec {
	return []ColumnSpec{
		{ID: "name", Sortable: true},
		{ID: "price", Sortable: true, DefaultDescending: true},
		{ID: "stock", Sortable: true},
		{ID: "notes", Sortable: false},
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		current Direction
		hint    bool
		want    Direction
	}{
		{Unsorted, false, Ascending},
		{Unsorted, true, Descending},
		{Ascending, false, Descending},
		{Ascending, true, Descending},
		{Descending, false, Ascending},
		{Descending, true, Ascending},
	}

	for _, tt := range tests {
		if got := Next(tt.current, tt.hint); got != tt.want {
			t.Errorf("Next(%v, %v) = %v, want %v", tt.current, tt.hint, got, tt.want)
		}
	}
}

func TestActivateCycleWithoutHint(t *testing.T) {
	c := NewController(specs())
	ctx := context.Background()

	want := []Direction{Ascending, Descending, Ascending, Descending}
	for i, w := range want {
		if !c.Activate(ctx, Activation{ColumnID: "name"}) {
			t.Fatalf("activation %d ignored", i)
		}
		col, _ := c.Column("name")
		if col.Direction() != w {
			t.Errorf("activation %d: direction = %v, want %v", i, col.Direction(), w)
		}
	}
}

func TestActivateDefaultDescendingStartsDescending(t *testing.T) {
	c := NewController(specs())

	col, _ := c.Column("price")
	if col.Direction() != Unsorted {
		t.Fatalf("initial direction = %v, want Unsorted", col.Direction())
	}
	if col.Recorded() != Descending {
		t.Fatalf("recorded direction = %v, want Descending", col.Recorded())
	}

	c.Activate(context.Background(), Activation{ColumnID: "price"})
	if col.Direction() != Descending {
		t.Errorf("first activation = %v, want Descending", col.Direction())
	}
	if col.Recorded() != Unsorted {
		t.Errorf("recorded after activation = %v, want Unsorted", col.Recorded())
	}

	c.Activate(context.Background(), Activation{ColumnID: "price"})
	if col.Direction() != Ascending {
		t.Errorf("second activation = %v, want Ascending", col.Direction())
	}
}

func TestDefaultDescendingRecordedAgainAfterOtherColumnChosen(t *testing.T) {
	c := NewController(specs())
	ctx := context.Background()

	c.Activate(ctx, Activation{ColumnID: "price"})
	c.Activate(ctx, Activation{ColumnID: "name"})

	price, _ := c.Column("price")
	if price.Direction() != Unsorted {
		t.Fatalf("price direction = %v, want Unsorted", price.Direction())
	}
	if price.Recorded() != Descending {
		t.Errorf("price recorded = %v, want Descending", price.Recorded())
	}

	c.Activate(ctx, Activation{ColumnID: "price"})
	if price.Direction() != Descending {
		t.Errorf("price re-activation = %v, want Descending", price.Direction())
	}
}

func TestActiveDefaultDescendingColumnIsNotReevaluated(t *testing.T) {
	c := NewController([]ColumnSpec{
		{ID: "price", Sortable: true, DefaultDescending: true, Active: true, Direction: Ascending},
	})

	col, _ := c.Column("price")
	if col.Direction() != Ascending {
		t.Fatalf("direction = %v, want Ascending", col.Direction())
	}
	if col.Recorded() != Unsorted {
		t.Errorf("recorded = %v, want Unsorted", col.Recorded())
	}

	c.Activate(context.Background(), Activation{ColumnID: "price"})
	if col.Direction() != Descending {
		t.Errorf("after activation = %v, want Descending", col.Direction())
	}
}

func TestActiveColumnWithoutAscendingIconIsDescending(t *testing.T) {
	c := NewController([]ColumnSpec{{ID: "name", Sortable: true, Active: true}})
	col, _ := c.Column("name")
	if col.Direction() != Descending {
		t.Errorf("direction = %v, want Descending", col.Direction())
	}
}

func TestSingleSortResetsOtherColumns(t *testing.T) {
	r := &recorder{}
	c := NewController(specs(), WithRenderer(r))
	ctx := context.Background()

	c.Activate(ctx, Activation{ColumnID: "name"})
	c.Activate(ctx, Activation{ColumnID: "stock", Modifier: true})

	name, _ := c.Column("name")
	if name.Direction() != Unsorted {
		t.Errorf("name = %v, want Unsorted", name.Direction())
	}
	if got := c.Meta(); len(got) != 1 || got[0].ColumnID != "stock" {
		t.Errorf("meta = %v, want [stock]", got)
	}
	if len(r.states) != 2 {
		t.Fatalf("renderer called %d times, want 2", len(r.states))
	}
	if r.states[1].Additive {
		t.Error("single-sort activation reported as additive")
	}
}

func TestMultiSortAdditivePreservesOrder(t *testing.T) {
	r := &recorder{}
	c := NewController(specs(), WithMultiSort(true), WithRenderer(r))
	ctx := context.Background()

	c.Activate(ctx, Activation{ColumnID: "name"})
	c.Activate(ctx, Activation{ColumnID: "price", Modifier: true})
	c.Activate(ctx, Activation{ColumnID: "stock", Modifier: true})

	want := Meta{
		{ColumnID: "name", Order: Ascending},
		{ColumnID: "price", Order: Descending},
		{ColumnID: "stock", Order: Ascending},
	}
	if got := c.Meta(); !reflect.DeepEqual(got, want) {
		t.Fatalf("meta = %v, want %v", got, want)
	}

	// Re-activating an existing column keeps its position.
	c.Activate(ctx, Activation{ColumnID: "name", Modifier: true})
	want[0].Order = Descending
	if got := c.Meta(); !reflect.DeepEqual(got, want) {
		t.Errorf("meta = %v, want %v", got, want)
	}

	last := r.states[len(r.states)-1]
	if !last.Additive || !last.Multi {
		t.Errorf("last state = %+v, want additive multi", last)
	}
	if last.ColumnID != "name" || last.Direction != Descending {
		t.Errorf("last state column = %s %v", last.ColumnID, last.Direction)
	}
}

func TestMultiSortPlainActivationYieldsSingleCriterion(t *testing.T) {
	c := NewController(specs(), WithMultiSort(true))
	ctx := context.Background()

	c.Activate(ctx, Activation{ColumnID: "name"})
	c.Activate(ctx, Activation{ColumnID: "price", Modifier: true})
	c.Activate(ctx, Activation{ColumnID: "stock", Modifier: true})

	for _, id := range []string{"stock", "price", "name"} {
		c.Activate(ctx, Activation{ColumnID: id})
		m := c.Meta()
		if len(m) != 1 {
			t.Fatalf("after plain activation of %s: meta length = %d, want 1", id, len(m))
		}
		if m[0].ColumnID != id {
			t.Errorf("meta[0] = %s, want %s", m[0].ColumnID, id)
		}
	}

	name, _ := c.Column("name")
	price, _ := c.Column("price")
	if name.Direction() == Unsorted {
		t.Error("activated column unsorted")
	}
	if price.Direction() != Unsorted {
		t.Errorf("price = %v, want Unsorted after plain activation of name", price.Direction())
	}
}

func TestMultiSortSeedsMetaFromActiveColumns(t *testing.T) {
	c := NewController([]ColumnSpec{
		{ID: "a", Sortable: true, Active: true, Direction: Ascending},
		{ID: "b", Sortable: true},
		{ID: "c", Sortable: true, Active: true, Direction: Descending},
	}, WithMultiSort(true))

	want := Meta{{ColumnID: "a", Order: Ascending}, {ColumnID: "c", Order: Descending}}
	if got := c.Meta(); !reflect.DeepEqual(got, want) {
		t.Errorf("meta = %v, want %v", got, want)
	}
}

func TestActivationGuards(t *testing.T) {
	tests := []struct {
		name string
		act  Activation
	}{
		{"unknown column", Activation{ColumnID: "missing"}},
		{"empty id", Activation{}},
		{"unsortable", Activation{ColumnID: "notes"}},
		{"from nested input", Activation{ColumnID: "name", FromInput: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			c := NewController(specs(), WithRenderer(r))
			if c.Activate(context.Background(), tt.act) {
				t.Error("activation should be ignored")
			}
			if len(r.states) != 0 {
				t.Errorf("renderer called %d times, want 0", len(r.states))
			}
			if len(c.Meta()) != 0 {
				t.Errorf("meta = %v, want empty", c.Meta())
			}
		})
	}
}

func TestActivateKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Enter", func(t *testing.T) {
		c := NewController(specs())
		if !c.ActivateKey(ctx, "name", KeyPress{Key: "Enter", Code: "Enter", TargetTag: "TH"}) {
			t.Fatal("Enter should activate")
		}
	})

	t.Run("NumpadEnter", func(t *testing.T) {
		c := NewController(specs())
		if !c.ActivateKey(ctx, "name", KeyPress{Key: "Enter", Code: "NumpadEnter"}) {
			t.Fatal("NumpadEnter should activate")
		}
	})

	t.Run("OtherKey", func(t *testing.T) {
		c := NewController(specs())
		if c.ActivateKey(ctx, "name", KeyPress{Key: "a", Code: "KeyA"}) {
			t.Fatal("KeyA should not activate")
		}
	})

	t.Run("FromInput", func(t *testing.T) {
		c := NewController(specs())
		if c.ActivateKey(ctx, "name", KeyPress{Key: "Enter", TargetTag: "INPUT"}) {
			t.Fatal("Enter inside input should not activate")
		}
	})

	t.Run("CtrlIsAdditive", func(t *testing.T) {
		c := NewController(specs(), WithMultiSort(true))
		c.ActivateKey(ctx, "name", KeyPress{Key: "Enter"})
		c.ActivateKey(ctx, "stock", KeyPress{Key: "Enter", Ctrl: true})
		c.ActivateKey(ctx, "price", KeyPress{Key: "Enter", Meta: true})
		if got := c.Meta().ColumnIDs(); !reflect.DeepEqual(got, []string{"name", "stock", "price"}) {
			t.Errorf("meta columns = %v", got)
		}
	})
}

func TestClear(t *testing.T) {
	r := &recorder{}
	c := NewController(specs(), WithMultiSort(true), WithRenderer(r))
	ctx := context.Background()

	c.Activate(ctx, Activation{ColumnID: "name"})
	c.Activate(ctx, Activation{ColumnID: "price", Modifier: true})
	c.Clear(ctx)

	if len(c.Meta()) != 0 {
		t.Errorf("meta = %v, want empty", c.Meta())
	}
	for _, col := range c.Columns() {
		if col.Direction() != Unsorted {
			t.Errorf("%s = %v, want Unsorted", col.ID, col.Direction())
		}
	}
	price, _ := c.Column("price")
	if price.Recorded() != Descending {
		t.Errorf("price recorded = %v, want Descending", price.Recorded())
	}
	if last := r.states[len(r.states)-1]; last.ColumnID != "" || len(last.Meta) != 0 {
		t.Errorf("clear state = %+v", last)
	}
}

func TestRebuild(t *testing.T) {
	c := NewController(specs(), WithMultiSort(true))
	c.Activate(context.Background(), Activation{ColumnID: "name"})

	c.Rebuild([]ColumnSpec{{ID: "x", Sortable: true}})
	if len(c.Meta()) != 0 {
		t.Errorf("meta = %v, want empty", c.Meta())
	}
	if _, ok := c.Column("name"); ok {
		t.Error("old column survived rebuild")
	}
	if len(c.Columns()) != 1 {
		t.Errorf("columns = %d, want 1", len(c.Columns()))
	}
}

func TestApply(t *testing.T) {
	t.Run("Multi", func(t *testing.T) {
		c := NewController(specs(), WithMultiSort(true))
		c.Apply(ParseMeta("-stock,notes,missing,name"))

		want := Meta{{ColumnID: "stock", Order: Descending}, {ColumnID: "name", Order: Ascending}}
		if got := c.Meta(); !reflect.DeepEqual(got, want) {
			t.Errorf("meta = %v, want %v", got, want)
		}
		stock, _ := c.Column("stock")
		if stock.Direction() != Descending {
			t.Errorf("stock = %v", stock.Direction())
		}
	})

	t.Run("Single", func(t *testing.T) {
		c := NewController(specs())
		c.Apply(ParseMeta("name,-stock"))
		if got := c.Meta(); len(got) != 1 || got[0].ColumnID != "name" {
			t.Errorf("meta = %v, want [name]", got)
		}
	})
}

func TestDuplicateAndEmptyColumnIDs(t *testing.T) {
	c := NewController([]ColumnSpec{
		{ID: "a", Sortable: true},
		{ID: "", Sortable: true},
		{ID: "a", Sortable: false},
	})
	if len(c.Columns()) != 1 {
		t.Fatalf("columns = %d, want 1", len(c.Columns()))
	}
	col, _ := c.Column("a")
	if !col.Sortable {
		t.Error("first declaration should win")
	}
}

func TestSingleSortKeepsFirstActiveColumn(t *testing.T) {
	c := NewController([]ColumnSpec{
		{ID: "a", Sortable: true, Active: true, Direction: Ascending},
		{ID: "b", Sortable: true, Active: true, Direction: Descending},
	})
	b, _ := c.Column("b")
	if b.Direction() != Unsorted {
		t.Errorf("b = %v, want Unsorted", b.Direction())
	}
	if s := c.State(); s.ColumnID != "a" || s.Direction != Ascending {
		t.Errorf("state = %+v", s)
	}
}
