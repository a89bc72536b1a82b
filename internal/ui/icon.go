package ui

// 16x16 solid tray icon, PNG encoded. Placeholder until real art lands.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x19, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0xfc, 0xcf, 0xc0, 0xf0,
	0x9f, 0x81, 0x81, 0x81, 0x81, 0x89, 0x81, 0x42, 0x30, 0xea, 0x80, 0x51,
	0x07, 0x8c, 0x3a, 0x60, 0xd4, 0x01, 0x43, 0xc5, 0x01, 0x00, 0x00, 0x00,
	0xff, 0xff, 0x03, 0x00, 0x9b, 0x3a, 0x04, 0x23, 0x9f, 0x13, 0x82, 0x7f,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
