package template

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads a template repository archive over HTTP and unpacks it.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher returns a Fetcher. A nil client gets a default with a timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Fetcher{httpClient: client}
}

// Fetch downloads the archive at url into workDir and extracts it. It returns
// the directory holding the template spec (template.yaml). All failures to
// retrieve or unpack the archive are *FetchError; a retrieved archive without
// a template spec is a *RenderError.
func (f *Fetcher) Fetch(url, workDir string) (string, error) {
	archivePath, err := f.download(url, workDir)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	extractDir := filepath.Join(workDir, "src")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating extraction directory: %w", err)}
	}

	if isZip(url) {
		err = extractZip(archivePath, extractDir)
	} else {
		err = extractTarGz(archivePath, extractDir)
	}
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	// The archive is no longer needed once extracted.
	_ = os.Remove(archivePath)

	return findTemplateRoot(extractDir)
}

// download streams the archive to a file in destDir and returns its path.
func (f *Fetcher) download(url, destDir string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", "plugin-creator")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	name := filepath.Base(strings.TrimSuffix(urlPath(url), "/"))
	if name == "." || name == "/" || name == "" {
		name = "template-archive"
	}
	destPath := filepath.Join(destDir, name)

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}
	return destPath, nil
}

// urlPath returns the path component of rawURL, so query strings and
// fragments never influence format detection or file naming.
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func isZip(rawURL string) bool {
	trimmed := strings.TrimSuffix(urlPath(rawURL), "/")
	return strings.HasSuffix(trimmed, ".zip")
}

// safeJoin joins an archive entry name below dir, rejecting absolute paths
// and traversal outside dir.
func safeJoin(dir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction directory", name)
	}
	return filepath.Join(dir, cleaned), nil
}

func extractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		destPath, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", hdr.Name, err)
			}
			mode := os.FileMode(0644)
			if hdr.FileInfo().Mode()&0111 != 0 {
				mode = 0755
			}
			out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
			if err != nil {
				return fmt.Errorf("creating file %s: %w", hdr.Name, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
			out.Close()
		}
	}
	return nil
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()

	for _, entry := range r.File {
		destPath, err := safeJoin(destDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", entry.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", entry.Name, err)
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", entry.Name, err)
		}

		mode := os.FileMode(0644)
		if entry.FileInfo().Mode()&0111 != 0 {
			mode = 0755
		}
		out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			rc.Close()
			return fmt.Errorf("creating file %s: %w", entry.Name, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			rc.Close()
			return fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
		out.Close()
		rc.Close()
	}
	return nil
}

// findTemplateRoot locates the directory containing template.yaml. Repository
// archives (GitHub tarballs) wrap everything in a single top-level directory,
// and template content may live in a template/ subdirectory.
func findTemplateRoot(extractDir string) (string, error) {
	candidates := []string{
		extractDir,
		filepath.Join(extractDir, "template"),
	}

	entries, err := os.ReadDir(extractDir)
	if err == nil && len(entries) == 1 && entries[0].IsDir() {
		top := filepath.Join(extractDir, entries[0].Name())
		candidates = append(candidates, top, filepath.Join(top, "template"))
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, SpecFileName)); err == nil {
			return dir, nil
		}
	}

	return "", &RenderError{Err: fmt.Errorf("no %s found in template archive", SpecFileName)}
}
