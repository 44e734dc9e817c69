package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
)

// Logo is an image ready to be embedded in a document.
type Logo struct {
	Data []byte
	MIME string
}

// ImageType returns the fpdf image type of the logo.
func (l *Logo) ImageType() string {
	switch l.MIME {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// LogoFetcher retrieves the logo referenced by a document.
type LogoFetcher interface {
	Fetch(ctx context.Context, url string) (*Logo, error)
}

var (
	errLogoTooLarge    = errors.New("logo exceeds size limit")
	errLogoNotAnImage  = errors.New("logo is not a supported image")
	errLogoHostBlocked = errors.New("logo host is not publicly routable")
)

// sharedAddress is the carrier-grade NAT range, not covered by IsPrivate.
var sharedAddress = netip.MustParsePrefix("100.64.0.0/10")

// HTTPLogoFetcher downloads logos over HTTP. Connections to loopback,
// private and link-local addresses are refused unless the host was
// allowed when the fetcher was created.
type HTTPLogoFetcher struct {
	client   *resty.Client
	maxBytes int64
	allowed  map[string]bool
}

// NewHTTPLogoFetcher returns a fetcher bounded by timeout and maxBytes.
// allowedHosts are "host" or "host:port" entries that may resolve to
// internal addresses, such as the object store serving uploaded logos.
func NewHTTPLogoFetcher(timeout time.Duration, maxBytes int64, allowedHosts ...string) *HTTPLogoFetcher {
	f := &HTTPLogoFetcher{
		maxBytes: maxBytes,
		allowed:  make(map[string]bool, len(allowedHosts)),
	}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			f.allowed[h] = true
		}
	}

	open := &net.Dialer{Timeout: timeout}
	guarded := &net.Dialer{Timeout: timeout, Control: rejectInternal}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if f.isAllowed(addr) {
				return open.DialContext(ctx, network, addr)
			}
			return guarded.DialContext(ctx, network, addr)
		},
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}

	f.client = resty.New().SetTransport(transport).SetTimeout(timeout)
	return f
}

func (f *HTTPLogoFetcher) isAllowed(addr string) bool {
	addr = strings.ToLower(addr)
	if f.allowed[addr] {
		return true
	}
	host, _, err := net.SplitHostPort(addr)
	return err == nil && f.allowed[host]
}

// rejectInternal runs after DNS resolution, so it also covers redirects
// and names that resolve differently on each lookup.
func rejectInternal(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", errLogoHostBlocked, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() ||
		sharedAddress.Contains(ip) {
		return fmt.Errorf("%w: %s", errLogoHostBlocked, ip)
	}
	return nil
}

// Fetch downloads url and checks that it holds a PNG, JPEG or GIF image.
func (f *HTTPLogoFetcher) Fetch(ctx context.Context, url string) (*Logo, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("unsupported logo url %q", url)
	}

	resp, err := f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch logo: %s", resp.Status())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errLogoTooLarge
	}

	logo := &Logo{Data: data, MIME: http.DetectContentType(data)}
	if logo.ImageType() == "" {
		return nil, fmt.Errorf("%w: %s", errLogoNotAnImage, logo.MIME)
	}
	return logo, nil
}
