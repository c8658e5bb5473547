package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 9 * * 1"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("0 9 * *"))
	assert.Error(t, ValidateCronSchedule("61 9 * * 1"))
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(5*time.Second, time.Second, 10*time.Second))
	assert.Error(t, ValidateDuration(0, time.Second, 10*time.Second))
	assert.Error(t, ValidateDuration(time.Minute, time.Second, 10*time.Second))
	assert.Error(t, ValidateDuration(time.Second, 10*time.Second, time.Second))
	assert.NoError(t, DurationRange(time.Second, time.Minute)(30*time.Second))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(3, 0, 10))
	assert.NoError(t, ValidateIntRange(0, 0, 10))
	assert.Error(t, ValidateIntRange(11, 0, 10))
	assert.Error(t, ValidateIntRange(-1, 0, 10))
	assert.Error(t, ValidateIntRange(1, 5, 0))
}

func TestValidatePositiveAndNonNegativeDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Millisecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.NoError(t, ValidateNonNegativeDuration(0))
	assert.Error(t, ValidateNonNegativeDuration(-time.Second))
}
