// Package catalog describes the tables a query can reference.
//
// A Catalog maps uppercase table names to Table descriptors: the ordered
// field list, the indexes over the table, the primary key width and the
// character set used to decode stored text. The SQL front end never reads
// table files; the binder resolves parsed names against a Catalog.
//
// Catalogs are declared in CUE:
//
//	table: CLIENTE: {
//		primary_fields: 1
//		fields: [
//			{name: "CODIGO", type: "long"},
//			{name: "NOME", type: "alpha"},
//		]
//		index: "CLIENTE.X02": {
//			fields: [1]
//			referential_integrity: 0x10
//		}
//	}
//
// Index sort direction is not stored directly. It falls out of the
// referential-integrity code: 0x10, 0x11 and 0x30 sort descending, every
// other code ascending.
package catalog
