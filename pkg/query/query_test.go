package query_test

import (
	"testing"

	"github.com/JaimeStill/triage/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "tickets", "t").
		Project("id", "id").
		Project("subject", "subject").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapTable(t *testing.T) {
	p := testProjection()
	if got, want := p.Table(), "public.tickets"; got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
	if got, want := p.From(), "public.tickets t"; got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "t" {
		t.Errorf("Alias() = %q, want %q", got, "t")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "t.id, t.subject, t.created_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnList(t *testing.T) {
	p := testProjection()
	got := p.ColumnList()
	if len(got) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(got))
	}
	want := []string{"t.id", "t.subject", "t.created_at"}
	for i, col := range got {
		if col != want[i] {
			t.Errorf("ColumnList()[%d] = %q, want %q", i, col, want[i])
		}
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "subject", "t.subject"},
		{"mapped camel", "createdAt", "t.created_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "name",
			want:  []query.SortField{{Field: "name", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-createdAt",
			want:  []query.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "name,-createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " name , -createdAt ",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "name,,createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.tickets t"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "createdAt", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t ORDER BY t.created_at DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderBuildSingleOrNull(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", "refund")
	sql, args := b.BuildSingleOrNull()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("BuildSingleOrNull() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "refund" {
		t.Errorf("BuildSingleOrNull() args = %v, want [refund]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", "refund")
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "refund" {
		t.Errorf("args = %v, want [refund]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", nil)
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("subject", ptr("test"))
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%test%" {
		t.Errorf("args = %v, want [%%test%%]", args)
	}
}

func TestBuilderWhereContainsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("subject", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("subject", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(ptr("test"), "subject", "id")
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE (t.subject ILIKE $1 OR t.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%test%" || args[1] != "%test%" {
		t.Errorf("args = %v, want [%%test%% %%test%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(nil, "subject")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", "refund")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject = $1 AND t.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
	if args[0] != "refund" {
		t.Errorf("args[0] = %v, want refund", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "createdAt", Descending: true},
		{Field: "subject", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t ORDER BY t.created_at DESC, t.subject ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "createdAt", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t ORDER BY t.created_at DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCountWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", "refund")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.tickets t WHERE t.subject = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "refund" {
		t.Errorf("args = %v, want [refund]", args)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id"})
	b.WhereContains("subject", ptr("report"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject ILIKE $1 ORDER BY t.id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%report%" {
		t.Errorf("args = %v, want [%%report%%]", args)
	}
}

func TestBuilderWhereCompare(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("subject", "refund")
	b.WhereCompare("createdAt", ">=", "2026-01-01")
	b.WhereCompare("createdAt", "<", nil)
	sql, args := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t WHERE t.subject = $1 AND t.created_at >= $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[1] != "2026-01-01" {
		t.Errorf("args = %v, want [refund 2026-01-01]", args)
	}
}

func TestBuilderWhereCompareRejectsOperator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported operator")
		}
	}()

	query.NewBuilder(testProjection()).WhereCompare("createdAt", "; DROP", "x")
}

func TestBuilderOrderByDropsUnmappedFields(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})
	b.OrderByFields([]query.SortField{
		{Field: "subject; DROP TABLE tickets"},
		{Field: "subject", Descending: true},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t ORDER BY t.subject DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderOrderByAllUnmappedFallsBackToDefault(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})
	b.OrderByFields([]query.SortField{{Field: "bogus"}})
	sql, _ := b.Build()

	wantSQL := "SELECT t.id, t.subject, t.created_at FROM public.tickets t ORDER BY t.created_at DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderSearchEscapesWildcards(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr(`100%_off\`), "subject")
	_, args := b.Build()

	want := `%100\%\_off\\%`
	if len(args) != 1 || args[0] != want {
		t.Errorf("args = %v, want [%s]", args, want)
	}
}

func TestProjectionMapLookup(t *testing.T) {
	p := testProjection()

	if col, ok := p.Lookup("createdAt"); !ok || col != "t.created_at" {
		t.Errorf("Lookup(createdAt) = %q, %v", col, ok)
	}
	if _, ok := p.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should report unmapped")
	}
}
