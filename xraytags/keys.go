package xraytags

import (
	"fmt"
	"sort"
	"strings"
)

// bitsPerWord leaves the top two bits of every word unused.
const bitsPerWord = 62

const (
	numKeys  = len(knownNames)
	numWords = (numKeys + bitsPerWord - 1) / bitsPerWord
)

// Key identifies one of the known attribute names. Its ordinal comes from
// sorting all known names by length and then byte-wise, so it is stable
// for a given set of names.
type Key struct {
	name    string
	ordinal int
	word    int
	mask    uint64
}

func (k Key) Name() string   { return k.name }
func (k Key) Ordinal() int   { return k.ordinal }
func (k Key) Word() int      { return k.word }
func (k Key) Mask() uint64   { return k.mask }
func (k Key) String() string { return fmt.Sprintf("%d:%#x %s", k.word, k.mask, k.name) }

type keyTable struct {
	keys     [numKeys]Key
	byLength [][]Key // indexed by len(name)
}

var table = buildTable()

func buildTable() *keyTable {
	names := knownNames
	sorted := names[:]
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) < len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	t := &keyTable{}
	longest := len(sorted[len(sorted)-1])
	t.byLength = make([][]Key, longest+1)
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			panic("duplicate known attribute name " + name)
		}
		k := Key{
			name:    name,
			ordinal: i,
			word:    i / bitsPerWord,
			mask:    1 << uint(i%bitsPerWord),
		}
		t.keys[i] = k
		t.byLength[len(name)] = append(t.byLength[len(name)], k)
	}
	return t
}

// LookupKey finds the known key for name. Matching is case-insensitive.
func LookupKey(name string) (Key, bool) {
	if len(name) >= len(table.byLength) {
		return Key{}, false
	}
	candidates := table.byLength[len(name)]
	for _, k := range candidates {
		if k.name == name {
			return k, true
		}
	}
	for _, k := range candidates {
		if strings.EqualFold(k.name, name) {
			return k, true
		}
	}
	return Key{}, false
}

// MustKey is LookupKey for names that are known to be in the table.
func MustKey(name string) Key {
	k, ok := LookupKey(name)
	if !ok {
		panic("not a known attribute name: " + name)
	}
	return k
}

// Keys returns every known key in ordinal order.
func Keys() []Key {
	keys := make([]Key, numKeys)
	copy(keys, table.keys[:])
	return keys
}

var (
	KeyHTTPMethod                = MustKey(AttributeHTTPMethod)
	KeyHTTPURL                   = MustKey(AttributeHTTPURL)
	KeyHTTPTarget                = MustKey(AttributeHTTPTarget)
	KeyHTTPHost                  = MustKey(AttributeHTTPHost)
	KeyHTTPScheme                = MustKey(AttributeHTTPScheme)
	KeyHTTPStatusCode            = MustKey(AttributeHTTPStatusCode)
	KeyHTTPStatusText            = MustKey(AttributeHTTPStatusText)
	KeyHTTPUserAgent             = MustKey(AttributeHTTPUserAgent)
	KeyHTTPClientIP              = MustKey(AttributeHTTPClientIP)
	KeyHTTPResponseContentLength = MustKey(AttributeHTTPResponseContentLength)
	KeyNetPeerName               = MustKey(AttributeNetPeerName)
	KeyDBSystem                  = MustKey(AttributeDBSystem)
	KeyDBName                    = MustKey(AttributeDBName)
	KeyDBStatement               = MustKey(AttributeDBStatement)
	KeyDBUser                    = MustKey(AttributeDBUser)
	KeyDBConnectionString        = MustKey(AttributeDBConnectionString)
	KeyRPCSystem                 = MustKey(AttributeRPCSystem)
	KeyRPCService                = MustKey(AttributeRPCService)
	KeyPeerService               = MustKey(AttributePeerService)
	KeyEnduserID                 = MustKey(AttributeEnduserID)
	KeyStatusCode                = MustKey(AttributeStatusCode)
	KeyAWSOperation              = MustKey(AttributeAWSOperation)
	KeyAWSAccount                = MustKey(AttributeAWSAccount)
	KeyAWSRegion                 = MustKey(AttributeAWSRegion)
	KeyAWSRequestID              = MustKey(AttributeAWSRequestID)
	KeyAWSRequestID2             = MustKey(AttributeAWSRequestID2)
	KeyAWSQueueURL               = MustKey(AttributeAWSQueueURL)
	KeyAWSQueueURL2              = MustKey(AttributeAWSQueueURL2)
	KeyAWSService                = MustKey(AttributeAWSService)
	KeyAWSTableName              = MustKey(AttributeAWSTableName)
	KeyAWSTableName2             = MustKey(AttributeAWSTableName2)
	KeyXRayXForwardedFor         = MustKey(AttributeXRayXForwardedFor)
	KeyXRayAnnotations           = MustKey(AttributeXRayAnnotations)
)
