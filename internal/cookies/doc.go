// Package cookies reads and writes the local browser cookie jar.
//
// Two jar formats are supported: the Netscape tab-separated text format used
// by curl, wget and most export extensions, and the Firefox cookies.sqlite
// database (moz_cookies table). [Open] picks the backend from configuration
// or by sniffing the file header.
//
// Cookie values are never logged. Only names and domains may appear in
// debug output.
package cookies
