package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRankList(t *testing.T) {
	assert.Empty(t, CreateRankList(0))
	assert.Empty(t, CreateRankList(-3))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
}
