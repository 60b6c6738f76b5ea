// Package handlepool implements the bounded file-handle pool behind the
// registry's file-handle singleton.
//
// Repository reads touch the same revision files over and over; keeping a
// small number of handles open avoids paying the open/close cost on every
// access. The pool parks returned handles up to a fixed capacity and evicts
// the least recently parked one beyond it. Capacity 0 is a valid pool that
// simply closes handles on return.
package handlepool
