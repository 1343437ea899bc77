package inference

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planktos/planktos-go/internal/errors"
	"github.com/planktos/planktos-go/internal/httpclient"
	"github.com/planktos/planktos-go/internal/taxonomy"
)

const testBackend = "http://backend.test"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	hc := httpclient.New(&httpclient.Config{Transport: httpmock.DefaultTransport})
	return New(testBackend, hc)
}

func TestSubmitImage_RawCountsWithoutAggregate(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK,
			`{"counts_raw":{"chlorella":3,"copepod":2,"unknown_species":5},"annotated_image_url":""}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)

	// aggregate recomputed locally, identical to calling the aggregator directly
	assert.Equal(t, taxonomy.Aggregate(result.RawCounts), result.Aggregate)
	assert.InDelta(t, 3, result.Aggregate.Phytoplankton, 0)
	assert.InDelta(t, 2, result.Aggregate.Zooplankton, 0)
	assert.InDelta(t, 0, result.Aggregate.Bacteria, 0)
	assert.Empty(t, result.AnnotatedImageURL)
}

func TestSubmitImage_ServerAggregateTrusted(t *testing.T) {
	c := newMockedClient(t)

	// server aggregate deliberately disagrees with what local aggregation
	// would produce; the explicit value must win
	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK,
			`{"counts_raw":{"chlorella":3},"counts_agg":{"phytoplankton":99,"zooplankton":1,"bacteria":0,"fungus":0}}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.InDelta(t, 99, result.Aggregate.Phytoplankton, 0)
	assert.InDelta(t, 1, result.Aggregate.Zooplankton, 0)
}

func TestSubmitImage_CountsFallbackKey(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK, `{"counts":{"rotifer":4}}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.InDelta(t, 4, result.RawCounts["rotifer"], 0)
	assert.InDelta(t, 4, result.Aggregate.Zooplankton, 0)
}

func TestSubmitImage_NonNumericCountsCoercedToZero(t *testing.T) {
	c := newMockedClient(t)

	// one bad entry must not reject the response or drop the good counts
	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK,
			`{"counts_raw":{"chlorella":3,"copepod":"oops","daphnia":"4.5","rotifer":null,"leptodora":true}}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.InDelta(t, 3, result.RawCounts["chlorella"], 0)
	assert.InDelta(t, 0, result.RawCounts["copepod"], 0)
	assert.InDelta(t, 4.5, result.RawCounts["daphnia"], 0, "numeric strings are accepted")
	assert.InDelta(t, 0, result.RawCounts["rotifer"], 0)
	assert.InDelta(t, 0, result.RawCounts["leptodora"], 0)

	assert.InDelta(t, 3, result.Aggregate.Phytoplankton, 0)
	assert.InDelta(t, 4.5, result.Aggregate.Zooplankton, 0)
}

func TestSubmitImage_EmptyBody(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Empty(t, result.RawCounts)
	assert.Equal(t, taxonomy.AggregateCounts{}, result.Aggregate)
}

func TestSubmitImage_ServerErrorCarriesRawBody(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"model not loaded"}`))

	result, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, errors.IsCategory(err, errors.CategoryServerError))
	assert.Contains(t, err.Error(), "server error 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestSubmitImage_MalformedResponse(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewStringResponder(http.StatusOK, `<html>not json</html>`))

	_, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryMalformedResponse))
}

func TestSubmitImage_NetworkError(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		httpmock.NewErrorResponder(assert.AnError))

	_, err := c.SubmitImage(context.Background(), "sample.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	assert.Contains(t, err.Error(), "network error")
}

func TestSubmitImage_SendsMultipartFileField(t *testing.T) {
	c := newMockedClient(t)

	var receivedField string
	var receivedName string
	httpmock.RegisterResponder(http.MethodPost, testBackend+"/predict",
		func(req *http.Request) (*http.Response, error) {
			file, header, err := req.FormFile("file")
			if err == nil {
				receivedField = "file"
				receivedName = header.Filename
				file.Close()
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"counts_raw":{}}`), nil
		})

	_, err := c.SubmitImage(context.Background(), "plankton.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Equal(t, "file", receivedField)
	assert.Equal(t, "plankton.jpg", receivedName)
}

func TestFetchAnnotatedImage(t *testing.T) {
	c := newMockedClient(t)

	imgURL := testBackend + "/predicted/annotated.png"
	payload := []byte{0x89, 'P', 'N', 'G'}

	httpmock.RegisterResponder(http.MethodGet, imgURL,
		httpmock.NewBytesResponder(http.StatusOK, payload).HeaderSet(http.Header{"Content-Type": {"image/png"}}))

	dataURL, err := c.FetchAnnotatedImage(context.Background(), imgURL)
	require.NoError(t, err)

	expected := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
	assert.Equal(t, expected, dataURL)

	// second fetch is served from the cache
	countBefore := httpmock.GetTotalCallCount()
	cached, err := c.FetchAnnotatedImage(context.Background(), imgURL)
	require.NoError(t, err)
	assert.Equal(t, dataURL, cached)
	assert.Equal(t, countBefore, httpmock.GetTotalCallCount())
}

func TestFetchAnnotatedImage_Failures(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBackend+"/missing.png",
		httpmock.NewStringResponder(http.StatusNotFound, "gone"))

	_, err := c.FetchAnnotatedImage(context.Background(), testBackend+"/missing.png")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageFetch))

	_, err = c.FetchAnnotatedImage(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
