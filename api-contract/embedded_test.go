package apicontract_test

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/lojatech/precifica/api-contract"
)

func TestSpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(apicontract.GetSpecBytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(loader.Context))

	assert.NotNil(t, doc.Paths.Find("/products"))
	assert.NotNil(t, doc.Paths.Find("/margins"))
	assert.NotNil(t, doc.Paths.Find("/prices/calculate"))
	assert.NotNil(t, doc.Paths.Find("/search/suggestions"))
	assert.NotNil(t, doc.Paths.Find("/search/recent"))
}
