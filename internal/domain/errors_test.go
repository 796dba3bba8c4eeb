package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("item %d not found", 7)))
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))

	wrapped := fmt.Errorf("approve: %w", Validation("booking already processed"))
	assert.Equal(t, KindValidation, KindOf(wrapped))
}

func TestError_Message(t *testing.T) {
	err := NotFound("item %d not found", 7)
	assert.EqualError(t, err, "item 7 not found")
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
