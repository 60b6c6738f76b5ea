// Package dav holds the protocol-level constants shared with the network
// transport layer: the binary-delta MIME type, the custom request headers,
// their option tokens, and the XML namespaces used for property and error
// marshalling. The constants carry no behavior and must stay wire-stable.
package dav

// SvndiffMIMEType is the MIME type used for the binary delta format.
// It is an application type for the "svn" vendor with subtype "svndiff".
const SvndiffMIMEType = "application/vnd.svn-svndiff"

// Custom request/response headers. Generic WebDAV/DeltaV clients never
// send or inspect these.
const (
	// DeltaBaseHeader transmits the delta base to the server: a version
	// resource URL for what is on the client.
	DeltaBaseHeader = "X-SVN-VR-Base"

	// OptionsHeader carries client-requested server behaviors.
	OptionsHeader = "X-SVN-Options"

	// VersionNameHeader tells the server exactly which revision of a
	// resource the client thinks it is operating on.
	VersionNameHeader = "X-SVN-Version-Name"

	// CreationDateHeader is emitted by the server on a successful LOCK
	// response and carries the lock creation timestamp.
	CreationDateHeader = "X-SVN-Creation-Date"

	// BaseFulltextMD5Header and ResultFulltextMD5Header verify that the
	// base and the result of a change transmission match on both sides,
	// regardless of the transformations applied in between.
	BaseFulltextMD5Header   = "X-SVN-Base-Fulltext-MD5"
	ResultFulltextMD5Header = "X-SVN-Result-Fulltext-MD5"
)

// Tokens that may appear in OptionsHeader.
const (
	OptionNoMergeResponse = "no-merge-response"
	OptionLockBreak       = "lock-break"
	OptionLockSteal       = "lock-steal"
	OptionReleaseLocks    = "release-locks"
	OptionKeepLocks       = "keep-locks"
)

// Error element placed within a <D:error> response.
const (
	ErrorNamespace = "svn:"
	ErrorTag       = "error"
)

// XML namespaces used for marshalling properties.
const (
	// PropNSSVN covers properties stored in the repository and working
	// copy and interpreted by client or server.
	PropNSSVN = "http://subversion.tigris.org/xmlns/svn/"

	// PropNSCustom covers user-invented properties that client and
	// server store but otherwise ignore.
	PropNSCustom = "http://subversion.tigris.org/xmlns/custom/"

	// PropNSDAV covers properties generated and consumed purely by the
	// network layer, invisible to storage and working copy.
	PropNSDAV = "http://subversion.tigris.org/xmlns/dav/"
)
