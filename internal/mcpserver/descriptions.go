package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeScanDeadCode() string {
	return `Finds unused exports, unused imports and zombie files (files nobody imports) in a JavaScript or TypeScript project.

USE WHEN:
- Cleaning up a codebase before or after a refactor
- Checking whether an export is safe to remove
- Finding modules orphaned by a removed feature

INTERPRETING RESULTS:
- confidence >= 0.8: high confidence, usually safe to remove after a quick look
- confidence 0.5-0.8: check for dynamic usage (string dispatch, framework conventions)
- confidence < 0.5: likely a false positive (test files, entry points, plugin registries)
- zombie_file items always carry possibly_dynamic=true: the file may be loaded by a bundler, router or test runner
- Type-only imports score 0.6 because type positions are not tracked
- Default exports, re-exports and "export *" are never reported as unused exports
- Imports of npm packages are never resolved, so their targets are never reported

METRICS RETURNED:
- dead_code: file_path, relative_path, span (1-indexed lines), code_snippet, kind, name, reason, confidence, context
- summary: counts per kind, total_issues, high_confidence_issues, low_confidence_issues
- total_files_scanned, total_lines, scan_duration (ms)`
}
