package opentelemetry

import (
	"testing"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewResource(t *testing.T) {
	res := newResource(&config.Config{Env: constants.Stage})

	value, ok := res.Set().Value(attribute.Key("service.name"))
	assert.True(t, ok)
	assert.Equal(t, constants.ServiceName, value.AsString())

	value, ok = res.Set().Value(attribute.Key("deployment.environment"))
	assert.True(t, ok)
	assert.Equal(t, constants.Stage, value.AsString())
}
