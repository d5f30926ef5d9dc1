// Package artifacts renders a consolidated variable map into files under
// a directory's .activate/ folder: a .env file, a JSON document and a
// Kubernetes ConfigMap. The files hold no state of their own; they are
// rewritten on every activation and removed on deactivation.
package artifacts
