package utils

import (
	"reflect"
	"testing"
)

func TestParseQueryList(t *testing.T) {
	tests := []struct {
		name string
		q    map[string][]string
		key  string
		want []string
	}{
		{
			name: "missing key",
			q:    map[string][]string{},
			key:  "specialty",
			want: nil,
		},
		{
			name: "single value",
			q:    map[string][]string{"specialty": {"Limpeza Residencial"}},
			key:  "specialty",
			want: []string{"Limpeza Residencial"},
		},
		{
			name: "comma separated",
			q:    map[string][]string{"specialty": {"Limpeza Residencial, Limpeza Comercial"}},
			key:  "specialty",
			want: []string{"Limpeza Residencial", "Limpeza Comercial"},
		},
		{
			name: "repeated params",
			q:    map[string][]string{"specialty": {" a ", "b"}},
			key:  "specialty",
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQueryList(tt.q, tt.key)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQueryList = %v, want %v", got, tt.want)
			}
		})
	}
}
