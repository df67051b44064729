package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

type URLRepositoryTestSuite struct {
	suite.Suite
	now  time.Time
	repo *URLRepository
}

func (suite *URLRepositoryTestSuite) SetupSuite() {
	suite.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *URLRepositoryTestSuite) SetupSubTest() {
	suite.repo = NewURLRepository()
}

func (suite *URLRepositoryTestSuite) newURL(code string, validity time.Duration) *entity.URL {
	return &entity.URL{
		ShortCode:   code,
		OriginalURL: "https://example.com",
		CreatedAt:   suite.now,
		ExpiresAt:   suite.now.Add(validity),
	}
}

func (suite *URLRepositoryTestSuite) TestSave() {
	suite.Run("short code exists", func() {
		suite.Require().NoError(suite.repo.Save(context.Background(), suite.newURL("abcd", time.Minute)))

		err := suite.repo.Save(context.Background(), suite.newURL("abcd", time.Minute))

		suite.ErrorIs(err, entity.ErrShortCodeExists)
	})

	suite.Run("stores a copy", func() {
		url := suite.newURL("abcd", time.Minute)
		suite.Require().NoError(suite.repo.Save(context.Background(), url))

		url.OriginalURL = "https://changed.example.com"

		got, err := suite.repo.RetrieveByShortCode(context.Background(), "abcd")
		suite.NoError(err)
		suite.Equal("https://example.com", got.OriginalURL)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveByShortCode() {
	suite.Run("url not found", func() {
		url, err := suite.repo.RetrieveByShortCode(context.Background(), "missing")

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.Require().NoError(suite.repo.Save(context.Background(), suite.newURL("abcd", time.Minute)))

		url, err := suite.repo.RetrieveByShortCode(context.Background(), "abcd")

		suite.NoError(err)
		suite.Equal("abcd", url.ShortCode)
		suite.Equal(suite.now.Add(time.Minute), url.ExpiresAt)
		suite.Zero(url.ClickCount)
	})
}

func (suite *URLRepositoryTestSuite) TestIncrementClickCount() {
	suite.Run("url not found", func() {
		_, err := suite.repo.IncrementClickCount(context.Background(), "missing")

		suite.ErrorIs(err, entity.ErrURLNotFound)
	})

	suite.Run("concurrent increments", func() {
		const n = 100

		suite.Require().NoError(suite.repo.Save(context.Background(), suite.newURL("abcd", time.Minute)))

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				_, _ = suite.repo.IncrementClickCount(context.Background(), "abcd")
			}()
		}
		wg.Wait()

		url, err := suite.repo.RetrieveByShortCode(context.Background(), "abcd")
		suite.NoError(err)
		suite.Equal(int64(n), url.ClickCount)
	})
}

func (suite *URLRepositoryTestSuite) TestDeleteExpired() {
	suite.Run("removes only urls expired before cutoff", func() {
		suite.Require().NoError(suite.repo.Save(context.Background(), suite.newURL("old1", time.Minute)))
		suite.Require().NoError(suite.repo.Save(context.Background(), suite.newURL("new1", time.Hour)))

		removed, err := suite.repo.DeleteExpired(context.Background(), suite.now.Add(30*time.Minute))

		suite.NoError(err)
		suite.Equal([]string{"old1"}, removed)

		count, err := suite.repo.Count(context.Background())
		suite.NoError(err)
		suite.Equal(1, count)

		_, err = suite.repo.RetrieveByShortCode(context.Background(), "old1")
		suite.ErrorIs(err, entity.ErrURLNotFound)
	})
}

func TestURLRepository(t *testing.T) {
	suite.Run(t, new(URLRepositoryTestSuite))
}
