package collector

import (
	"fmt"
	"strings"
)

// DefaultSources 默认启用的数据源，顺序即消息中的顺序
var DefaultSources = []string{"leharo", "natrati", "ukohoutu"}

// Source 注册表中的一项
type Source struct {
	Code string
	New  func(ocr OCR) Fetcher
}

// Registry 返回所有已知数据源
func Registry() []Source {
	return []Source{
		{Code: "bonami", New: func(ocr OCR) Fetcher { return &BonAmiFetcher{URL: bonAmiURL, OCR: ocr} }},
		{Code: "leharo", New: func(ocr OCR) Fetcher { return &LeharoFetcher{URL: leharoURL, OCR: ocr} }},
		{Code: "hasicka", New: func(ocr OCR) Fetcher { return NewHasickaFetcher(ocr) }},
		{Code: "ukohoutu", New: func(OCR) Fetcher { return &UKohoutuFetcher{URL: uKohoutuURL} }},
		{Code: "natrati", New: func(OCR) Fetcher { return &NaTratiFetcher{URL: naTratiURL} }},
		{Code: "bernard", New: func(OCR) Fetcher { return &BernardFetcher{URL: bernardURL} }},
		{Code: "sargam", New: func(OCR) Fetcher { return &SargamFetcher{URL: sargamURL} }},
		{Code: "pepe", New: func(OCR) Fetcher { return &PepeFetcher{URL: pepeURL} }},
		{Code: "gourmet", New: func(OCR) Fetcher { return &GourmetFetcher{URL: gourmetURL} }},
	}
}

// Build 按 codes 的顺序实例化数据源，未知的 code 返回错误
func Build(codes []string, ocr OCR) ([]Fetcher, error) {
	if len(codes) == 0 {
		codes = DefaultSources
	}
	byCode := make(map[string]Source)
	for _, s := range Registry() {
		byCode[s.Code] = s
	}

	fetchers := make([]Fetcher, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		src, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("unknown menu source %q", code)
		}
		fetchers = append(fetchers, src.New(ocr))
	}
	return fetchers, nil
}
