package checks

const (
	technicalSafeguards      = "Technical Safeguards"
	administrativeSafeguards = "Administrative Safeguards"
)

// hipaa is the HIPAA Security Rule subset checked by default.
func hipaa() *Framework {
	return &Framework{
		Name:        "hipaa",
		Description: "HIPAA Security Rule technical and administrative safeguards",
		Controls: []Control{
			{
				ID:       "164.312(a)(2)(iv)",
				Name:     "Encryption and Decryption",
				Category: technicalSafeguards,
				Severity: SeverityHigh,
				Match: []string{
					"encryption: enabled",
					"encrypt_at_rest: true",
					"kms_key_id:",
					"server_side_encryption",
					"encrypted: true",
				},
				PassDetail:  "Encryption at rest is enabled",
				FailDetail:  "Encryption at rest is NOT enabled",
				Remediation: "Enable encryption at rest using KMS or equivalent encryption service",
			},
			{
				ID:       "164.312(b)",
				Name:     "Audit Controls",
				Category: technicalSafeguards,
				Severity: SeverityHigh,
				Match: []string{
					"audit_log: enabled",
					"cloudtrail: enabled",
					"logging: true",
					"audit_enabled: true",
					"monitoring: enabled",
				},
				PassDetail:  "Audit logging is enabled",
				FailDetail:  "Audit logging is NOT enabled",
				Remediation: "Enable comprehensive audit logging and monitoring for all system activities",
			},
			{
				ID:       "164.312(d)",
				Name:     "Person or Entity Authentication",
				Category: technicalSafeguards,
				Severity: SeverityCritical,
				Match: []string{
					"mfa_enabled: true",
					"multi_factor: true",
					"require_mfa: true",
					"2fa_required: true",
					"mfa: enforced",
				},
				PassDetail:  "Multi-factor authentication is enabled",
				FailDetail:  "Multi-factor authentication is NOT enabled",
				Remediation: "Implement Multi-Factor Authentication (MFA) for all user accounts accessing PHI",
			},
			{
				ID:       "164.312(e)(2)(ii)",
				Name:     "Transmission Security - Encryption",
				Category: technicalSafeguards,
				Severity: SeverityHigh,
				Match: []string{
					"tls: enabled",
					"ssl_enabled: true",
					"https_only: true",
					"enforce_ssl: true",
					"tls_version: 1.2",
					"tls_version: 1.3",
				},
				PassDetail:  "Encryption in transit is enabled",
				FailDetail:  "Encryption in transit is NOT enabled",
				Remediation: "Enable TLS 1.2 or higher for all data transmission",
			},
			{
				ID:       "164.312(a)(2)(i)",
				Name:     "Unique User Identification",
				Category: technicalSafeguards,
				Severity: SeverityMedium,
				Match: []string{
					"unique_user_id: true",
					"user_identification: enforced",
					"iam_enabled: true",
					"individual_accounts: true",
				},
				PassDetail:  "Unique user identification is enforced",
				FailDetail:  "Unique user identification is NOT enforced",
				Remediation: "Implement unique user identification for all system access - no shared accounts",
			},
			{
				ID:       "164.308(a)(7)(ii)(A)",
				Name:     "Data Backup Plan",
				Category: administrativeSafeguards,
				Severity: SeverityHigh,
				Match: []string{
					"backup: enabled",
					"backup_enabled: true",
					"automated_backup: true",
					"disaster_recovery: enabled",
				},
				PassDetail:  "Data backup is configured",
				FailDetail:  "Data backup is NOT configured",
				Remediation: "Establish automated backup procedures with regular testing",
			},
			{
				ID:       "164.308(a)(3)(ii)(C)",
				Name:     "Termination Procedures",
				Category: administrativeSafeguards,
				Severity: SeverityMedium,
				Match: []string{
					"access_termination: automated",
					"offboarding: enabled",
					"account_lifecycle: managed",
				},
				PassDetail:  "Access termination procedures are in place",
				FailDetail:  "Access termination procedures are NOT configured",
				Remediation: "Implement automated access termination procedures for departing personnel",
			},
			{
				ID:       "164.312(a)(2)(iii)",
				Name:     "Automatic Logoff",
				Category: technicalSafeguards,
				Severity: SeverityLow,
				Match: []string{
					"auto_logoff: enabled",
					"session_timeout:",
					"idle_timeout:",
				},
				PassDetail:  "Automatic logoff is configured",
				FailDetail:  "Automatic logoff is NOT configured",
				Remediation: "Configure automatic session termination after period of inactivity",
			},
		},
	}
}
