package sgp22

// INTEGER and ENUMERATED value names (SGP.22 ASN.1 module RSPDefinitions).

var bppCommandIDs = map[int64]string{
	0: "initialiseSecureChannel",
	1: "configureISDP",
	2: "storeMetadata",
	3: "storeMetadata2",
	4: "replaceSessionKeys",
	5: "loadProfileElements",
}

var installErrorReasons = map[int64]string{
	1:   "incorrectInputValues",
	2:   "invalidSignature",
	3:   "invalidTransactionId",
	4:   "unsupportedCrtValues",
	5:   "unsupportedRemoteOperationType",
	6:   "unsupportedProfileClass",
	7:   "scp03tStructureError",
	8:   "scp03tSecurityError",
	9:   "installFailedDueToIccidAlreadyExistsOnEuicc",
	10:  "installFailedDueToInsufficientMemoryForProfile",
	11:  "installFailedDueToInterruption",
	12:  "installFailedDueToPEProcessingError",
	13:  "installFailedDueToIccidMismatch",
	14:  "testProfileInstallFailedDueToInvalidNaaKey",
	15:  "pprNotAllowed",
	16:  "enterpriseProfilesNotSupported",
	17:  "enterpriseRulesNotAllowed",
	127: "installFailedDueToUnknownError",
}

// peStatuses names the status of a Profile Element (EUICCResponse, SIMAlliance
// eUICC Profile Package).
var peStatuses = map[int64]string{
	0:  "ok",
	1:  "pe-not-supported",
	2:  "memory-failure",
	3:  "bad-values",
	4:  "not-enough-memory",
	5:  "invalid-request-format",
	6:  "invalid-parameter",
	7:  "runtime-not-supported",
	8:  "lib-not-supported",
	9:  "template-not-supported",
	10: "feature-not-supported",
	11: "pin-code-missing",
}

var authenticateErrors = map[int64]string{
	1:   "invalidCertificate",
	2:   "invalidSignature",
	3:   "unsupportedCurve",
	4:   "noSessionContext",
	5:   "invalidOid",
	6:   "euiccChallengeMismatch",
	8:   "ciPKUnknown",
	9:   "transactionIdError",
	10:  "missingCrl",
	11:  "invalidCrlSignature",
	12:  "revokedCert",
	13:  "invalidCertForCrl",
	14:  "invalidCertOrCrlLengthsExceeded",
	127: "undefinedError",
}

var listNotificationErrors = map[int64]string{
	127: "undefinedError",
}

var retrieveNotificationsErrors = map[int64]string{
	1:   "noResult",
	127: "undefinedError",
}

var setNicknameResults = map[int64]string{
	0:   "ok",
	1:   "iccidNotFound",
	127: "undefinedError",
}

var deleteNotificationStatuses = map[int64]string{
	0:   "ok",
	1:   "nothingToDelete",
	127: "undefinedError",
}

var profileInfoListErrors = map[int64]string{
	1:   "incorrectInputValues",
	127: "undefinedError",
}

var enableResults = map[int64]string{
	0:   "ok",
	1:   "iccidOrAidNotFound",
	2:   "profileNotInDisabledState",
	3:   "disallowedByPolicy",
	4:   "wrongProfileReenabling",
	5:   "catBusy",
	127: "undefinedError",
}

var disableResults = map[int64]string{
	0:   "ok",
	1:   "iccidOrAidNotFound",
	2:   "profileNotInEnabledState",
	3:   "disallowedByPolicy",
	5:   "catBusy",
	127: "undefinedError",
}

var deleteResults = map[int64]string{
	0:   "ok",
	1:   "iccidOrAidNotFound",
	2:   "profileNotInDisabledState",
	3:   "disallowedByPolicy",
	127: "undefinedError",
}

var profileStates = map[int64]string{
	0: "Disabled",
	1: "Enabled",
}

var profileClasses = map[int64]string{
	0: "test",
	1: "provisioning",
	2: "operational",
}

var iconTypes = map[int64]string{
	0: "jpg",
	1: "png",
}

var euiccCategories = map[int64]string{
	0: "other",
	1: "basicEuicc",
	2: "mediumEuicc",
	3: "contactlessEuicc",
}

// BIT STRING names.

var notificationEventNames = []string{
	"notificationInstall",
	"notificationLocalEnable",
	"notificationLocalDisable",
	"notificationLocalDelete",
	"notificationRpmEnable",
	"notificationRpmDisable",
	"notificationRpmDelete",
	"loadRpmPackageResult",
}

var profilePolicyRuleNames = []string{
	"pprUpdateControl",
	"ppr1",
	"ppr2",
}

var serverCapabilityNames = []string{
	"crlStaplingV3Support",
	"eventListSigningV3Support",
	"pushServiceV3Support",
	"cancelForEmptySpnPnSupport",
}
