package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// Twitch limits
	MaxChannelLength = 25
	MaxMessageLength = 500

	MaxCommandLength = 50
	MaxPrizeLength   = 200

	// One day
	MaxDurationSeconds = 24 * 60 * 60

	// Ticket multiplier per category
	MaxWeight = 10000
)

// Twitch login: lowercase letters, digits, underscores
var channelRegex = regexp.MustCompile(`^[a-z0-9_]{1,25}$`)

// ValidateChannel checks a normalized (lowercase, no '#') channel login.
func ValidateChannel(channel string) error {
	if channel == "" {
		return fmt.Errorf("channel is required")
	}
	if len(channel) > MaxChannelLength {
		return fmt.Errorf("channel cannot exceed %d characters", MaxChannelLength)
	}
	if !channelRegex.MatchString(channel) {
		return fmt.Errorf("channel must contain only letters, numbers and underscores")
	}
	return nil
}

// ValidateCommand checks the entry trigger. It is matched against the first
// word of a chat line, so it may not contain whitespace.
func ValidateCommand(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("command is required")
	}
	if len(command) > MaxCommandLength {
		return fmt.Errorf("command cannot exceed %d characters", MaxCommandLength)
	}
	if strings.IndexFunc(command, unicode.IsSpace) >= 0 {
		return fmt.Errorf("command must be a single word")
	}
	return nil
}

// ValidateDuration checks the giveaway length in seconds.
func ValidateDuration(seconds int) error {
	if err := ValidatePositiveInt(int64(seconds), "duration"); err != nil {
		return err
	}
	if seconds > MaxDurationSeconds {
		return fmt.Errorf("duration cannot exceed %d seconds", MaxDurationSeconds)
	}
	return nil
}

// ValidateWeight checks one entry of a broadcaster's weight table.
func ValidateWeight(category string, weight int) error {
	field := "weight for " + category
	if err := ValidateNonNegativeInt(int64(weight), field); err != nil {
		return err
	}
	if weight > MaxWeight {
		return fmt.Errorf("%s cannot exceed %d", field, MaxWeight)
	}
	return nil
}

// ValidatePrize checks the optional prize label.
func ValidatePrize(prize string) error {
	if len(prize) > MaxPrizeLength {
		return fmt.Errorf("prize cannot exceed %d characters", MaxPrizeLength)
	}
	return nil
}

// ValidateWinnerMessage checks the announcement template.
func ValidateWinnerMessage(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message is required")
	}
	if len(message) > MaxMessageLength {
		return fmt.Errorf("message cannot exceed %d characters", MaxMessageLength)
	}
	return nil
}

// ValidatePositiveInt checks that value is above zero.
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

// ValidateNonNegativeInt checks that value is zero or above.
func ValidateNonNegativeInt(value int64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}
