package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".py", "python"},
		{".go", "go"},
		{".rb", "ruby"},
		{".js", ""},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"go", "python", "ruby"} {
		l, ok := Languages[name]
		if !ok {
			t.Fatalf("%s language not registered", name)
		}
		if l.GetLanguage() == nil {
			t.Errorf("%s grammar is nil", name)
		}
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	py := Languages["python"]
	p := py.NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestGetTagQueryCompiles(t *testing.T) {
	t.Parallel()

	for name, l := range Languages {
		q, err := l.GetTagQuery()
		if err != nil {
			t.Fatalf("GetTagQuery(%s): %v", name, err)
		}
		if q == nil {
			t.Fatalf("query for %s is nil", name)
		}
	}
}

func TestAggregatorBases(t *testing.T) {
	t.Parallel()

	bases := AggregatorBases()
	if _, ok := bases["__init__.py"]; !ok {
		t.Errorf("expected __init__.py in aggregator bases, got %v", bases)
	}
}
