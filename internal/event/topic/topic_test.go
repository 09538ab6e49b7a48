package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"insert.imageInline", "insert.imageInline", true},
		{"insert.imageInline", "insert.*", true},
		{"insert.imageInline", "insert", false},
		{"attribute.alt.imageInline", "attribute.*.imageInline", true},
		{"attribute.alt.imageInline", "attribute.**", true},
		{"attribute.alt.imageInline", "attribute.*", false},
		{"element.img", "**", true},
		{"element.img", "element.figure", false},
		{"insert.$text", "insert.$text", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.topic.Matches(tt.pattern))
		})
	}
}

func TestTopicParts(t *testing.T) {
	tp := Join("attribute", "alt", "imageInline")

	assert.Equal(t, Topic("attribute.alt.imageInline"), tp)
	assert.Equal(t, "imageInline", tp.Base())
	assert.Equal(t, "attribute", tp.Root())
	assert.Equal(t, Topic("insert.paragraph"), Topic("insert").Child("paragraph"))
	assert.Equal(t, Topic("paragraph"), Topic("").Child("paragraph"))
	assert.False(t, tp.IsWildcard())
	assert.True(t, Topic("insert.*").IsWildcard())
}

func TestTopicIsValid(t *testing.T) {
	assert.True(t, Topic("view.imageLoaded").IsValid())
	assert.False(t, Topic("").IsValid())
	assert.False(t, Topic("view..loaded").IsValid())
	assert.False(t, Topic(".view").IsValid())
}
