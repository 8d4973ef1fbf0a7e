package rag

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// TextExtractor 文本提取器接口
// 尽力而为：单页不可读时返回空文本而不是整体失败
type TextExtractor interface {
	Extract(reader io.Reader, filename string) (string, error)
	Supports(filename string) bool
}

// PDFExtractor PDF文本提取器
type PDFExtractor struct{}

func (p *PDFExtractor) Supports(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".pdf"
}

func (p *PDFExtractor) Extract(reader io.Reader, filename string) (string, error) {
	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF文件失败: %w", err)
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(pdfBytes))
	if err != nil {
		return "", fmt.Errorf("解析PDF失败: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("获取PDF页数失败: %w", err)
	}

	// 逐页提取，不可读页按空文本处理
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			pages = append(pages, "")
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			pages = append(pages, "")
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// PlainTextExtractor 纯文本文件提取器
type PlainTextExtractor struct{}

func (p *PlainTextExtractor) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".txt" || ext == ".md" || ext == ".markdown"
}

func (p *PlainTextExtractor) Extract(reader io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return string(content), nil
}

// DocxExtractor Word文档提取器
type DocxExtractor struct{}

func (p *DocxExtractor) Supports(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".docx"
}

func (p *DocxExtractor) Extract(reader io.Reader, filename string) (string, error) {
	docBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取Word文件失败: %w", err)
	}

	readerAt := bytes.NewReader(docBytes)
	doc, err := document.Read(readerAt, int64(len(docBytes)))
	if err != nil {
		return "", fmt.Errorf("解析Word文档失败: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// ExtractorManager 按文件名选择合适的提取器
type ExtractorManager struct {
	extractors []TextExtractor
}

// NewExtractorManager 创建提取器管理器，注册内置提取器
func NewExtractorManager() *ExtractorManager {
	return &ExtractorManager{
		extractors: []TextExtractor{
			&PDFExtractor{},
			&PlainTextExtractor{},
			&DocxExtractor{},
		},
	}
}

// Supports 是否存在支持该文件的提取器
func (m *ExtractorManager) Supports(filename string) bool {
	for _, ex := range m.extractors {
		if ex.Supports(filename) {
			return true
		}
	}
	return false
}

// Extract 提取文件文本
func (m *ExtractorManager) Extract(reader io.Reader, filename string) (string, error) {
	for _, ex := range m.extractors {
		if ex.Supports(filename) {
			return ex.Extract(reader, filename)
		}
	}
	return "", fmt.Errorf("不支持的文件格式: %s", filepath.Ext(filename))
}
