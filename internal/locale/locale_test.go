package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang string
		msg  string
		want string
	}{
		{"", "inline image widget", "inline image widget"},
		{"en", "Open file manager", "Open file manager"},
		{"de", "inline image widget", "Inline-Bild-Widget"},
		{"de-AT", "Open file manager", "Dateimanager öffnen"},
		{"pl", "image widget", "Obraz"},
		{"de", "not translated", "not translated"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.msg, func(t *testing.T) {
			l, err := New(tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.T(tt.msg))
		})
	}
}

func TestNewInvalidLanguage(t *testing.T) {
	_, err := New("not a language!")
	assert.Error(t, err)
}

func TestAddTranslations(t *testing.T) {
	l, err := New("fr")
	require.NoError(t, err)
	assert.Equal(t, "Insert image", l.T("Insert image"))

	require.NoError(t, l.AddTranslations("fr", map[string]string{
		"Insert image": "Insérer une image",
		"%d images":    "%d images",
	}))

	assert.Equal(t, "fr", l.Language())
	assert.Equal(t, "Insérer une image", l.T("Insert image"))
	assert.Equal(t, "3 images", l.T("%d images", 3))
}
