// Package services implements the driving ports.
//
// NotesService validates every request against the current settings and
// hands updates to the BatchOrchestrator, which runs the resolve, rewrite and
// commit pipeline for one presentation. SettingsService maps flat config keys
// to domain.Settings. AuditService reads the commit log.
//
// Services reach the file format only through the internal/pptx packages and
// infrastructure only through driven ports.
package services
