// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONLogger(t *testing.T) {
	// Setup a buffer to capture output
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	// Test debug level logging
	logger.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	// Parse and verify the output
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry, "caller")
	assert.Contains(t, logEntry["caller"], "logger_test.go")

	// Test that log levels are respected
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	// This should not log anything (debug < warn)
	warnLogger.Debug("Should not appear", nil)
	assert.Equal(t, "", buf.String())

	// This should log
	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// Test WithField
	buf.Reset()
	fieldLogger := logger.WithField("component", "converter-client")
	fieldLogger.Info("With field", nil)

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "converter-client", logEntry["component"])
	assert.Equal(t, "With field", logEntry["message"])

	// Test WithFields
	buf.Reset()
	fieldsLogger := logger.WithFields(map[string]interface{}{
		"app":     "test-app",
		"version": "1.0.0",
	})
	fieldsLogger.Info("With fields", nil)

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "test-app", logEntry["app"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "With fields", logEntry["message"])

	// Test log levels
	buf.Reset()
	infoLogger := NewJSONLogger(&buf, InfoLevel)

	infoLogger.Debug("Debug", nil) // Shouldn't log
	assert.Equal(t, "", buf.String())

	infoLogger.Info("Info", nil) // Should log
	assert.Contains(t, buf.String(), "Info")

	buf.Reset()
	infoLogger.Warn("Warn", nil) // Should log
	assert.Contains(t, buf.String(), "Warn")

	buf.Reset()
	infoLogger.Error("Error", nil) // Should log
	assert.Contains(t, buf.String(), "Error")
}

func TestWithFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	assert.Same(t, logger, logger.WithFields(nil))
}

func TestDevelopmentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDevelopmentLogger(&buf, InfoLevel)

	logger.Info("Console message", map[string]interface{}{"currency": "EUR"})

	out := buf.String()
	assert.Contains(t, out, "Console message")
	assert.Contains(t, out, "EUR")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		" warn ":  WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
	}

	for in, want := range cases {
		got, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestGetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	assert.NotNil(t, logger)
}

func TestSetDefaultLogger(t *testing.T) {
	originalLogger := GetDefaultLogger()
	defer SetDefaultLogger(originalLogger)

	var buf bytes.Buffer
	newLogger := NewJSONLogger(&buf, DebugLevel)

	SetDefaultLogger(newLogger)
	assert.Equal(t, Logger(newLogger), GetDefaultLogger())

	// nil is ignored
	SetDefaultLogger(nil)
	assert.Equal(t, Logger(newLogger), GetDefaultLogger())
}
