package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"go-apply-agent/internal/database"
	"go-apply-agent/internal/models"
)

// Load returns the resume text for path, from the hash-keyed cache when the
// file is unchanged, extracting and storing it otherwise.
func Load(ctx context.Context, repo *database.Repository, path string) (*models.ResumeData, error) {
	hash, err := fileHash(path)
	if err != nil {
		return nil, fmt.Errorf("failed to hash resume: %w", err)
	}

	if cached, err := repo.GetResumeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("failed to check resume cache: %w", err)
	} else if cached != nil {
		log.Println("✅ Resume text loaded from cache")
		return cached, nil
	}

	text, err := ExtractText(path)
	if err != nil {
		return nil, err
	}

	data := &models.ResumeData{
		RawText:  text,
		FilePath: path,
		FileHash: hash,
	}
	if _, err := repo.SaveResume(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to cache resume text: %w", err)
	}
	log.Printf("✅ Extracted %d characters of resume text", len(text))
	return data, nil
}

// ExtractText pulls plain text out of a PDF using whichever system extractor
// is installed, pdftotext first.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume file not found: %w", err)
	}

	extractors := []func(string) (string, error){extractPdftotext, extractPs2ascii}
	var lastErr error
	for _, extract := range extractors {
		text, err := extract(path)
		if err != nil {
			lastErr = err
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("extractor produced no text")
	}
	return "", fmt.Errorf("failed to extract text from %s: %w", path, lastErr)
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}

func extractPs2ascii(path string) (string, error) {
	out, err := exec.Command("ps2ascii", path).Output()
	if err != nil {
		return "", fmt.Errorf("ps2ascii failed: %w", err)
	}
	return string(out), nil
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
