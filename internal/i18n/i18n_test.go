package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Init("en"))

	en := WithLocalizer(context.Background(), NewLocalizer("en"))
	assert.Equal(t, "Correct! You earned 5 points.", Tp(en, "GradeCorrect", 5))
	assert.Equal(t, "Correct! You earned 1 point.", Tp(en, "GradeCorrect", 1))
	assert.Equal(t, "Incorrect. You earned 0 out of 3 points.", Tp(en, "GradeIncorrect", 3))
	assert.Contains(t, T(en, "GradeNoKey"), "no answer key")

	ru := WithLocalizer(context.Background(), NewLocalizer("ru"))
	assert.NotEqual(t, Tp(en, "GradeCorrect", 5), Tp(ru, "GradeCorrect", 5))
}

func TestMissingTranslationFallsBackToID(t *testing.T) {
	require.NoError(t, Init("en"))
	ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
	assert.Equal(t, "NoSuchMessage", T(ctx, "NoSuchMessage"))
}

func TestNoLocalizerInContext(t *testing.T) {
	require.NoError(t, Init("en"))
	assert.Equal(t, "Correct! You earned 2 points.", Tp(context.Background(), "GradeCorrect", 2))
}

func TestMiddleware(t *testing.T) {
	require.NoError(t, Init("en"))

	var got string
	h := Middleware("ru")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Tp(r.Context(), "GradeCorrect", 5)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, "Correct!", "russian localizer must not produce the english string")
}
