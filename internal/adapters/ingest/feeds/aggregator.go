package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"breachwatch/internal/platform/config"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/logger"
	cldomain "breachwatch/internal/services/claims/domain"
)

// maxClaimsPerCycle caps how much of a feed's backlog one cycle admits
const maxClaimsPerCycle = 100

// post is the wire shape the public aggregators publish
type post struct {
	PostTitle   string `json:"post_title"`
	GroupName   string `json:"group_name"`
	Discovered  string `json:"discovered"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Aggregator polls a ransomwatch-style JSON posts feed
type Aggregator struct {
	name   string
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewAggregator constructs a feed client for the posts endpoint at url
func NewAggregator(name, url string) *Aggregator {
	return &Aggregator{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger.Named("feed." + name),
	}
}

// Name implements Feed
func (a *Aggregator) Name() string { return a.name }

// Fetch implements Feed. The backlog is sorted newest first and capped,
// so a fresh deployment does not replay years of history in one cycle
func (a *Aggregator) Fetch(ctx context.Context) ([]cldomain.Claim, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fetch %s", a.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "feed %s returned %d", a.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s body", a.name)
	}

	var posts []post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "decode %s posts", a.name)
	}
	a.log.Info().Int("posts", len(posts)).Msg("feed fetched")

	type stamped struct {
		p  post
		ts time.Time
	}
	all := make([]stamped, len(posts))
	for i, p := range posts {
		all[i] = stamped{p: p, ts: ParseTimestamp(p.Discovered)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].ts.After(all[j].ts) })
	if len(all) > maxClaimsPerCycle {
		all = all[:maxClaimsPerCycle]
	}

	out := make([]cldomain.Claim, 0, len(all))
	for _, s := range all {
		raw, _ := json.Marshal(s.p)
		out = append(out, cldomain.Claim{
			Collector:   a.name,
			ThreatActor: s.p.GroupName,
			Name:        s.p.PostTitle,
			Domain:      s.p.Website,
			Comment:     s.p.Description,
			RawPayload:  string(raw),
			Timestamp:   s.ts,
			URL:         s.p.Link,
		})
	}
	return out, nil
}

// FromConfig builds the configured feed set from the FEEDS_ namespace.
// FEEDS_SOURCES is a csv of names; each name resolves its posts URL
// from FEEDS_<NAME>_URL
func FromConfig(cfg config.Conf) []Feed {
	var out []Feed
	for _, name := range cfg.MayCSV("SOURCES", []string{"ransomwatch"}) {
		url := cfg.MayString(fmt.Sprintf("%s_URL", toEnvKey(name)), "")
		if url == "" {
			logger.Named("feeds").Warn().Str("feed", name).Msg("feed has no url, skipping")
			continue
		}
		out = append(out, NewAggregator(name, url))
	}
	return out
}

func toEnvKey(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			b = append(b, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	return string(b)
}
