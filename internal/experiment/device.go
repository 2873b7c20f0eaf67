package experiment

import "github.com/mssola/useragent"

// ParseDevice extracts the stored device summary from a raw User-Agent
// header. Unknown agents produce a zero-ish Device rather than an error.
func ParseDevice(rawUA string) Device {
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	return Device{
		Browser:        name,
		BrowserVersion: version,
		OS:             ua.OS(),
		Platform:       ua.Platform(),
		Mobile:         ua.Mobile(),
		Bot:            ua.Bot(),
		RawUserAgent:   rawUA,
	}
}
