package collector

import (
	"errors"
	"fmt"
	"log"

	"github.com/PuerkitoBio/goquery"
)

// errImageNotFound 页面上找不到菜单图片或图片地址为空
var errImageNotFound = errors.New("menu image not found on page")

// imageLocator 从页面中找出菜单图片地址，找不到返回空串
type imageLocator func(doc *goquery.Document) string

// recognizeMenuImage 下载页面、定位菜单图片、下载图片并做一次 OCR。
// 任意一步失败都返回 error，由各数据源转换为占位菜单。
func recognizeMenuImage(source, pageURL string, locate imageLocator, engine OCR, opts OCROptions) (string, error) {
	doc, err := fetchPage(pageURL, requestOptions{browser: true})
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	src := locate(doc)
	if src == "" {
		return "", fmt.Errorf("%s: %w", source, errImageNotFound)
	}

	img, err := fetchImage(absURL(pageURL, src))
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	if engine == nil {
		engine = NewTesseractOCR()
	}
	if opts.Language == "" {
		opts.Language = ocrLanguage
	}
	text, err := engine.Recognize(img, opts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	log.Printf("%s: recognized %d characters", source, len([]rune(text)))
	return text, nil
}
