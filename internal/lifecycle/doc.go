// Package lifecycle holds the pieces every engine-owned entity shares:
//
//   - [Handle]: identity of an owning engine
//   - [Attachment]: atomic single-owner tag plus added/removed notifications
//   - [Lifespan]: shared expiry, by flag or by age
//   - [Entity]: embeddable bundle of the above with a caller Tag
//   - [Signal]: ordered synchronous subscriber list
package lifecycle
