package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		want    string
		wantErr bool
	}{
		{name: "区切り文字で連結する", fields: []string{"10/03/2025 - 14:00", "Sala 1", "Dune", "A1"}, want: "10/03/2025 - 14:00;Sala 1;Dune;A1"},
		{name: "空フィールドも保持する", fields: []string{"a", "", "b"}, want: "a;;b"},
		{name: "区切り文字を含む", fields: []string{"a;b"}, wantErr: true},
		{name: "改行を含む", fields: []string{"a\nb"}, wantErr: true},
		{name: "復帰を含む", fields: []string{"a\r"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeLine(tt.fields)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLine(t *testing.T) {
	assert.Nil(t, DecodeLine("   "))
	assert.Equal(t, []string{"a", "", "b"}, DecodeLine(" a;;b \n"))
}
