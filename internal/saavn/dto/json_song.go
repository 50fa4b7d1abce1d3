// Package dto normalizes the catalog API's JSON into model values.
//
// The API is not shape-stable: artists arrive as artists.primary[].name on
// newer deployments and as a singers list (or plain string) on older ones;
// album is an object or a bare string; download URLs live in downloadUrl[]
// or in flat media_url/media_preview_url fields. gjson queries absorb these
// variations so the rest of the codebase only sees model.SongDetail.
package dto

import (
	"github.com/tidwall/gjson"

	"saavnbot/internal/model"
)

// SearchResults extracts song summaries from a raw search envelope.
//
// An envelope with no results yields an empty slice, which callers treat as
// a valid empty outcome distinct from a transport failure.
func SearchResults(raw []byte) []model.SongSummary {
	var summaries []model.SongSummary
	for _, r := range resultsOf(raw).Array() {
		detail := songFromResult(r)
		summaries = append(summaries, model.SongSummary{
			ID:       detail.ID,
			Title:    detail.Title,
			Artists:  detail.ArtistString(),
			Album:    detail.Album,
			Duration: detail.Duration,
			Year:     detail.Year,
		})
	}
	return summaries
}

// SongDetail extracts the first song record from a raw detail envelope.
// Returns nil when the envelope carries no record.
func SongDetail(raw []byte) *model.SongDetail {
	results := resultsOf(raw).Array()
	if len(results) == 0 {
		return nil
	}
	detail := songFromResult(results[0])
	return &detail
}

// resultsOf locates the record list inside an envelope. Deployments differ
// between {results:[…]} and {data:{results:[…]}}.
func resultsOf(raw []byte) gjson.Result {
	if r := gjson.GetBytes(raw, "results"); r.Exists() {
		return r
	}
	return gjson.GetBytes(raw, "data.results")
}

func songFromResult(r gjson.Result) model.SongDetail {
	title := r.Get("name").String()
	if title == "" {
		title = r.Get("song").String()
	}

	return model.SongDetail{
		ID:        r.Get("id").String(),
		Title:     title,
		Artists:   artistNames(r),
		Album:     albumName(r.Get("album")),
		Duration:  int(r.Get("duration").Int()),
		Year:      r.Get("year").String(),
		Language:  r.Get("language").String(),
		Music:     r.Get("music").String(),
		Copyright: r.Get("copyright").String(),
		Label:     r.Get("label").String(),
		URL:       r.Get("url").String(),
		Explicit:  r.Get("explicitContent").Bool(),
		Images:    links(r.Get("image")),
		Downloads: downloadLinks(r),
	}
}

// artistNames reads artists.primary[].name, falling back to the legacy
// singers field which may be a list of objects or a plain string.
func artistNames(r gjson.Result) []string {
	var names []string
	for _, a := range r.Get("artists.primary.#.name").Array() {
		if a.String() != "" {
			names = append(names, a.String())
		}
	}
	if len(names) > 0 {
		return names
	}

	singers := r.Get("singers")
	if singers.IsArray() {
		for _, s := range singers.Array() {
			if name := s.Get("name").String(); name != "" {
				names = append(names, name)
			}
		}
		return names
	}
	if s := singers.String(); s != "" {
		names = append(names, s)
	}
	return names
}

// albumName accepts the album field as an object with a name or as a bare
// string.
func albumName(album gjson.Result) string {
	if album.IsObject() {
		return album.Get("name").String()
	}
	return album.String()
}

func links(field gjson.Result) []model.ImageLink {
	var out []model.ImageLink
	for _, item := range field.Array() {
		url := item.Get("url").String()
		if url == "" {
			url = item.Get("link").String()
		}
		if url == "" {
			continue
		}
		out = append(out, model.ImageLink{
			Quality: item.Get("quality").String(),
			URL:     url,
		})
	}
	return out
}

// downloadLinks reads downloadUrl[], falling back to the flat media URL
// fields older deployments expose. Flat fields carry no quality string and
// are labelled so the quality classifier files them under its fallback.
func downloadLinks(r gjson.Result) []model.DownloadLink {
	var out []model.DownloadLink
	for _, item := range r.Get("downloadUrl").Array() {
		quality := item.Get("quality").String()
		url := item.Get("url").String()
		if url == "" {
			url = item.Get("link").String()
		}
		if quality == "" || url == "" {
			continue
		}
		out = append(out, model.DownloadLink{Quality: quality, URL: url})
	}
	if len(out) > 0 {
		return out
	}

	if url := r.Get("media_url").String(); url != "" {
		return []model.DownloadLink{{Quality: "default", URL: url}}
	}
	if url := r.Get("media_preview_url").String(); url != "" {
		return []model.DownloadLink{{Quality: "preview", URL: url}}
	}
	return nil
}
