// Package logx configures craftforged's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - Log level and sinks swappable at runtime via Service.Apply
package logx
