package fetch

import (
	"fmt"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/yumyum-02/scraping/pkg/utils"
)

// decodeBody converts a raw response body to UTF-8. The source encoding comes from
// the Content-Type charset, a BOM, a <meta charset> declaration, or content sniffing.
func decodeBody(body []byte, contentType string) (decoded []byte, encodingName string, err error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if enc == nil || enc == encoding.Nop {
		return body, name, nil
	}
	decoded, _, err = transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, name, fmt.Errorf("%w: %s: %w", utils.ErrDecoding, name, err)
	}
	return decoded, name, nil
}
