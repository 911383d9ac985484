package mapsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParsesPlaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search/local.json", r.URL.Path)
		assert.Equal(t, "더채플앳청담", r.URL.Query().Get("query"))
		assert.Equal(t, "test-id", r.Header.Get("X-Naver-Client-Id"))

		w.Write([]byte(`{"items":[{
			"title":"더채플앳<b>청담</b>",
			"address":"서울특별시 강남구 청담동 70-1",
			"roadAddress":"서울특별시 강남구 선릉로 757",
			"mapx":"1270424000",
			"mapy":"375221000"
		}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-id", "test-secret")
	places, err := client.Search(context.Background(), "더채플앳청담")
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Equal(t, "더채플앳청담", places[0].Name, "markup tags stripped from title")
	assert.Equal(t, "서울특별시 강남구 선릉로 757", places[0].RoadAddr)
	assert.InDelta(t, 127.0424, places[0].Longitude, 0.0001)
	assert.InDelta(t, 37.5221, places[0].Latitude, 0.0001)
}

func TestSearchRequiresCredentials(t *testing.T) {
	client := NewClient("http://localhost", "", "")
	_, err := client.Search(context.Background(), "웨딩홀")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient("http://localhost", "id", "secret")
	places, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-id", "test-secret")
	_, err := client.Search(context.Background(), "웨딩홀")
	assert.Error(t, err)
}
