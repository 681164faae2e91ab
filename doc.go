// Package xdb reads and writes X-Ray engine "DB" archives.
//
// An archive is a flat sequence of chunks: an optional USERDATA chunk, a
// DATA chunk holding every file payload back to back, and a HEADER chunk
// holding the entry table. The table is LZHUF compressed and, for the RU and
// WW releases, scrambled with a keyed byte cipher. Five table layouts exist,
// selected by [Version]:
//
//   - 1114: the oldest layout, per-entry LZHUF payloads (.xrp)
//   - 2215: LZO1X payloads and folder records (.xpN)
//   - 2945: 2215 plus a CRC-32 per entry
//   - 2947: length-prefixed names, used by 2947RU, 2947WW and XDB (.xdbN, .dbN)
//
// # Unpacking
//
//	stats, err := xdb.Unpack(ctx, "gamedata.db0",
//	    xdb.UnpackWithOutputDir("out"),
//	    xdb.UnpackWithMask("textures/"),
//	)
//
// Extraction is best-effort: entries that cannot be expanded or written are
// logged and counted in [UnpackStats.Failed] while the rest continue.
//
// # Packing
//
//	stats, err := xdb.Pack(ctx, "gamedata", "mod.xdb0")
//
// Packing always writes the 2947 layout with payloads stored as-is; only the
// entry table is compressed.
//
// # Reading
//
// [OpenArchive] maps an archive into memory for listing and random reads:
//
//	a, err := xdb.OpenArchive("gamedata.db0", 0)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	data, err := a.ReadFile("config/system.ltx")
package xdb
