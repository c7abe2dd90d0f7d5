package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{
			name: "extends right",
			a:    Span{File: 1, Start: 0, End: 5},
			b:    Span{File: 1, Start: 3, End: 9},
			want: Span{File: 1, Start: 0, End: 9},
		},
		{
			name: "extends left",
			a:    Span{File: 1, Start: 4, End: 8},
			b:    Span{File: 1, Start: 1, End: 2},
			want: Span{File: 1, Start: 1, End: 8},
		},
		{
			name: "different files keep receiver",
			a:    Span{File: 1, Start: 4, End: 8},
			b:    Span{File: 2, Start: 0, End: 100},
			want: Span{File: 1, Start: 4, End: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpanCtxt(t *testing.T) {
	s := Span{File: 2, Start: 1, End: 4}
	marked := s.WithCtxt(7)
	if marked.Ctxt != 7 || marked.Start != s.Start || marked.End != s.End {
		t.Errorf("WithCtxt = %+v", marked)
	}
	if got := marked.String(); got != "2:1-4#7" {
		t.Errorf("String = %q", got)
	}
	if got := s.String(); got != "2:1-4" {
		t.Errorf("String without ctxt = %q", got)
	}
}

func TestFileSetDirVirtual(t *testing.T) {
	fs := NewFileSet()
	real := fs.Add("/tmp/proj/main.ql", []byte("x"), 0)
	virt := fs.AddVirtual("stdin", []byte("y"))

	if dir, ok := fs.Dir(real); !ok || dir != "/tmp/proj" {
		t.Errorf("Dir(real) = %q, %v", dir, ok)
	}
	if _, ok := fs.Dir(virt); ok {
		t.Errorf("Dir(virtual) reported a directory")
	}
}
