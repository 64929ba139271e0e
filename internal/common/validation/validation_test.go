package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChannel(t *testing.T) {
	assert.NoError(t, ValidateChannel("some_streamer42"))
	assert.Error(t, ValidateChannel(""))
	assert.Error(t, ValidateChannel("Upper"))
	assert.Error(t, ValidateChannel("two words"))
	assert.Error(t, ValidateChannel(strings.Repeat("a", MaxChannelLength+1)))
}

func TestValidateCommand(t *testing.T) {
	assert.NoError(t, ValidateCommand("!join"))
	assert.NoError(t, ValidateCommand("  !join  "))
	assert.Error(t, ValidateCommand(" "))
	assert.Error(t, ValidateCommand("!join now"))
	assert.Error(t, ValidateCommand(strings.Repeat("x", MaxCommandLength+1)))
}

func TestValidateNumbersAndText(t *testing.T) {
	assert.NoError(t, ValidateDuration(1))
	assert.NoError(t, ValidateDuration(MaxDurationSeconds))
	assert.Error(t, ValidateDuration(0))
	assert.Error(t, ValidateDuration(-5))
	assert.Error(t, ValidateDuration(MaxDurationSeconds+1))
	assert.Error(t, ValidateDuration(10_000_000_000))

	assert.NoError(t, ValidatePrize(""))
	assert.Error(t, ValidatePrize(strings.Repeat("p", MaxPrizeLength+1)))

	assert.NoError(t, ValidateWinnerMessage("Congrats {user}!"))
	assert.Error(t, ValidateWinnerMessage("   "))
	assert.Error(t, ValidateWinnerMessage(strings.Repeat("m", MaxMessageLength+1)))

	assert.NoError(t, ValidateNonNegativeInt(0, "weight"))
	assert.EqualError(t, ValidateNonNegativeInt(-1, "weight"), "weight cannot be negative")
}

func TestValidateWeight(t *testing.T) {
	assert.NoError(t, ValidateWeight("viewer", 0))
	assert.NoError(t, ValidateWeight("viewer", MaxWeight))
	assert.EqualError(t, ValidateWeight("vip", -1), "weight for vip cannot be negative")
	assert.EqualError(t, ValidateWeight("viewer", MaxWeight+1), "weight for viewer cannot exceed 10000")
	assert.Error(t, ValidateWeight("viewer", 1<<40))
}
