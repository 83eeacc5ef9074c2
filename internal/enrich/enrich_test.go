package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mapleads-cli/internal/browser"
	"github.com/sells-group/mapleads-cli/internal/model"
)

// stubProvider serves canned pages by URL and records every navigation.
type stubProvider struct {
	mu     sync.Mutex
	pages  map[string]*browser.Page
	errs   map[string]error
	opened []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{pages: make(map[string]*browser.Page), errs: make(map[string]error)}
}

func (s *stubProvider) add(url, text, html string) {
	s.pages[url] = browser.NewPage(url, text, html)
}

func (s *stubProvider) Open(_ context.Context, url string, _ time.Duration) (*browser.Page, error) {
	s.mu.Lock()
	s.opened = append(s.opened, url)
	s.mu.Unlock()
	if err := s.errs[url]; err != nil {
		return nil, err
	}
	if p, ok := s.pages[url]; ok {
		return p, nil
	}
	return nil, errors.New("not found: " + url)
}

func (s *stubProvider) Close() {}

const socialRowHTML = `<html><body>
<p>Acme Plumbing, serving Springfield since 1984. Reach us at info@acmeplumbing.com.</p>
<div class="social">
  <a href="https://facebook.com/acmeplumbing">Facebook</a>
  <a href="https://instagram.com/acme.plumbing" aria-label="Instagram"><i class="fa-instagram"></i></a>
</div>
<a href="mailto:owner@acmeplumbing.com">Email the owner</a>
</body></html>`

func TestEnrich_AnchorAndMailtoSignals(t *testing.T) {
	p := newStubProvider()
	p.add("https://acmeplumbing.com", "Acme Plumbing. Reach us at info@acmeplumbing.com.", socialRowHTML)

	ext := NewExtractor(p)
	social, emails, err := ext.Enrich(context.Background(), "acmeplumbing.com")
	require.NoError(t, err)
	assert.Equal(t, "https://facebook.com/acmeplumbing", social[model.PlatformFacebook])
	assert.Equal(t, "https://instagram.com/acme.plumbing", social[model.PlatformInstagram])
	assert.Contains(t, emails, "info@acmeplumbing.com")
	assert.Contains(t, emails, "owner@acmeplumbing.com")
}

func TestEnrich_JSONLDSameAs(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type":"LocalBusiness","name":"Acme","sameAs":["https://linkedin.com/company/acme-plumbing","https://youtube.com/@acmeplumbing"]}
</script></head><body><p>Acme Plumbing email info@acmeplumbing.com</p></body></html>`
	p := newStubProvider()
	p.add("https://acmeplumbing.com", "Acme Plumbing email info@acmeplumbing.com", html)

	social, _, err := NewExtractor(p).Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/company/acme-plumbing", social[model.PlatformLinkedIn])
	assert.Equal(t, "https://youtube.com/@acmeplumbing", social[model.PlatformYouTube])
}

func TestEnrich_CacheOpensDomainOnce(t *testing.T) {
	p := newStubProvider()
	p.add("https://acmeplumbing.com", "plain text with no signals at all here", "<html><body>nothing</body></html>")

	ext := NewExtractor(p)
	_, _, err := ext.Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)
	_, _, err = ext.Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)

	assert.Len(t, p.opened, 1)
	assert.Equal(t, 1, ext.cache.Len())
}

func TestEnrich_CacheDoesNotOutliveExtractor(t *testing.T) {
	p := newStubProvider()
	p.add("https://acmeplumbing.com", "plain text with no signals at all here", "<html><body>nothing</body></html>")

	_, _, err := NewExtractor(p).Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)

	// A later extractor over the same provider starts with an empty cache
	// and navigates the domain again.
	_, _, err = NewExtractor(p).Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)

	assert.Len(t, p.opened, 2)
}

func TestEnrich_SecondaryCrawlWhenFewPlatforms(t *testing.T) {
	p := newStubProvider()
	p.add("https://acmeplumbing.com", "Contact info@acmeplumbing.com for quotes today", "<html><body></body></html>")
	p.add("https://acmeplumbing.com/contact",
		"Our profiles: https://facebook.com/acmeplumbing and https://instagram.com/acme.plumbing",
		`<html><body><a href="https://facebook.com/acmeplumbing">fb</a></body></html>`)
	p.errs["https://acmeplumbing.com/about"] = errors.New("404")

	social, emails, err := NewExtractor(p).Enrich(context.Background(), "https://acmeplumbing.com")
	require.NoError(t, err)
	assert.Equal(t, "https://facebook.com/acmeplumbing", social[model.PlatformFacebook])
	assert.Equal(t, "https://instagram.com/acme.plumbing", social[model.PlatformInstagram])
	assert.Contains(t, emails, "info@acmeplumbing.com")

	// home, /contact, /about; the /about failure is swallowed and /social
	// is never visited because only two secondary pages are allowed
	assert.Equal(t, []string{
		"https://acmeplumbing.com",
		"https://acmeplumbing.com/contact",
		"https://acmeplumbing.com/about",
	}, p.opened)
}

func TestEnrich_NoSecondaryCrawlWithoutHomeSignals(t *testing.T) {
	p := newStubProvider()
	p.add("https://parked-domain.com", "this domain is for sale placeholder lorem ipsum", "<html><body></body></html>")

	social, emails, err := NewExtractor(p).Enrich(context.Background(), "https://parked-domain.com")
	require.NoError(t, err)
	assert.Zero(t, social.Count())
	assert.Empty(t, emails)
	assert.Len(t, p.opened, 1)
}

func TestEnrich_PrimaryFailureReturnsError(t *testing.T) {
	p := newStubProvider()
	p.errs["https://down.example.org"] = errors.New("navigation timeout")

	ext := NewExtractor(p)
	social, _, err := ext.Enrich(context.Background(), "https://down.example.org")
	require.Error(t, err)
	assert.Zero(t, social.Count())

	// failures are not cached; a later record with the same domain retries
	_, _, err = ext.Enrich(context.Background(), "https://down.example.org")
	require.Error(t, err)
	assert.Len(t, p.opened, 2)
}

func TestCache_ComputeRunsOnceUnderConcurrency(t *testing.T) {
	cache := NewCache()
	var computes int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = cache.GetOrCompute("acme.com", func() (model.SocialLinks, []string, error) {
				mu.Lock()
				computes++
				mu.Unlock()
				return model.NewSocialLinks(), nil, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, computes)
}
