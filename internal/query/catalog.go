package query

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/video"
)

// Catalog remembers every video a remote source returned in a bleve index
// and answers from that index when the remote comes back empty.
type Catalog struct {
	remote   Source
	idx      bleve.Index
	fallback bool
}

// OpenCatalog opens or creates the index at indexPath. An empty path keeps
// the index in memory.
func OpenCatalog(remote Source, indexPath string, fallback bool) (*Catalog, error) {
	var idx bleve.Index
	var err error

	if indexPath == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			debuglog.Warnf("creating index directory: %v", mkErr)
		}
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
		}
	}
	if err != nil {
		return nil, err
	}

	return &Catalog{remote: remote, idx: idx, fallback: fallback}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = false

	uploader := bleve.NewTextFieldMapping()
	uploader.Analyzer = keyword.Name
	uploader.Store = true

	raw := bleve.NewTextFieldMapping()
	raw.Index = false
	raw.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("uploader", uploader)
	dm.AddFieldMappingsAt("raw", raw)

	im.DefaultMapping = dm
	return im
}

// Search implements page.Searcher.
func (c *Catalog) Search(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	return logged(ctx, c, uploader, term, order, maxResults)
}

// Fetch asks the remote first and indexes what it returns. An empty or
// failed remote answer falls back to the index when enabled.
func (c *Catalog) Fetch(ctx context.Context, uploader, term string, order video.Ordering, maxResults int) ([]*video.Video, error) {
	videos, err := c.remote.Fetch(ctx, uploader, term, order, maxResults)
	if err == nil && len(videos) > 0 {
		c.Add(videos...)
		return videos, nil
	}
	if !c.fallback {
		return videos, err
	}

	local, lerr := c.lookup(uploader, term, maxResults)
	if lerr != nil {
		debuglog.Warnf("offline lookup failed: %v", lerr)
		return videos, err
	}
	if len(local) == 0 {
		return videos, err
	}
	if err != nil {
		debuglog.Infof("remote failed (%v), answering from %d indexed videos", err, len(local))
	}
	sortVideos(local, order)
	return local, nil
}

// Add indexes videos, replacing earlier copies with the same ID.
func (c *Catalog) Add(videos ...*video.Video) {
	batch := c.idx.NewBatch()
	for _, v := range videos {
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		_ = batch.Index(v.ID, map[string]any{
			"title":       v.Title,
			"description": v.Description,
			"uploader":    v.Uploader,
			"raw":         string(raw),
		})
	}
	if err := c.idx.Batch(batch); err != nil {
		debuglog.Warnf("indexing %d videos: %v", len(videos), err)
	}
}

func (c *Catalog) lookup(uploader, term string, limit int) ([]*video.Video, error) {
	var clauses []bleveQuery.Query
	if uploader != "" {
		uq := bleve.NewTermQuery(uploader)
		uq.SetField("uploader")
		clauses = append(clauses, uq)
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(term) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qd := bleve.NewMatchQuery(tok)
		qd.SetField("description")
		qd.SetBoost(2.0)
		qdp := bleve.NewPrefixQuery(tok)
		qdp.SetField("description")
		qdp.SetBoost(1.8)
		qs = append(qs, qt, qtp, qd, qdp)
	}
	if len(qs) > 0 {
		clauses = append(clauses, bleve.NewDisjunctionQuery(qs...))
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	if limit <= 0 {
		limit = 20
	}
	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(clauses...), limit, 0, false)
	req.Fields = []string{"raw"}
	res, err := c.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*video.Video, 0, len(res.Hits))
	for _, h := range res.Hits {
		raw, ok := h.Fields["raw"].(string)
		if !ok {
			continue
		}
		var v video.Video
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

// DocCount reports how many videos are indexed.
func (c *Catalog) DocCount() (int, error) {
	n, err := c.idx.DocCount()
	return int(n), err
}

func (c *Catalog) Close() error {
	return c.idx.Close()
}

func tokenize(text string) []string {
	var terms []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return terms
}
