package entrez

import "github.com/m-mizutani/srafetch/pkg/domain/interfaces"

var ParseRunInfo = parseRunInfo

type (
	SearchFunc = searchFunc
	FetchFunc  = fetchFunc
)

// NewTestClient builds a client with stubbed E-utilities calls
func NewTestClient(search SearchFunc, fetch FetchFunc, opts ...Option) interfaces.ArchiveClient {
	c := NewClient("srafetch-test", "test@example.com", opts...).(*client)
	c.search = search
	c.fetch = fetch
	return c
}
