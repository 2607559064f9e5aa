package collector

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const ocrLanguage = "ces"

// OCROptions 单次识别的参数
type OCROptions struct {
	Language string
	// SingleColumn 对应 tesseract 的 --psm 4，适合一列排版的菜单板
	SingleColumn bool
}

// OCR 把图片字节识别为文本
type OCR interface {
	Recognize(image []byte, opts OCROptions) (string, error)
}

// TesseractOCR 通过 gosseract 调用本机 Tesseract，图片解码由 Leptonica 完成。
// 每次识别都新建 client，识别本身是同步阻塞的，没有超时。
type TesseractOCR struct{}

func NewTesseractOCR() *TesseractOCR {
	return &TesseractOCR{}
}

func (t *TesseractOCR) Recognize(image []byte, opts OCROptions) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	lang := opts.Language
	if lang == "" {
		lang = ocrLanguage
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("ocr: set language %s: %w", lang, err)
	}
	if opts.SingleColumn {
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
			return "", fmt.Errorf("ocr: set page seg mode: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("ocr: load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return text, nil
}

// nonEmptyLines 按行切分识别结果并丢掉空行
func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
