// Package membuffer implements the in-memory content cache behind the
// registry's content-cache singleton.
//
// The cache holds decoded repository data (directory listings, fulltexts,
// deltas) under a fixed byte budget. The budget is split into segments so
// concurrent readers rarely share a lock, and is reserved from an optional
// resource.Controller at construction time. When the controller denies the
// full budget, construction shrinks the request by halving until it fits;
// if even the floor is denied, construction fails cleanly and nothing stays
// reserved.
package membuffer
