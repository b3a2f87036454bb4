// SPDX-License-Identifier: MPL-2.0

package module

import "strconv"

// Match checks h against the host's expectations. The checks run in a fixed
// order and the first failing one determines the returned *VersionError:
// signature, module-format minor version, kind, component major version,
// component minor version. A nil result means the module may be used.
func Match(h Header) error {
	if h.Signature != HostSignature() {
		return &VersionError{Code: ErrorSignature, Got: strconv.Quote(h.SignatureString()), Want: strconv.Quote(Signature)}
	}
	if h.ModMinorVersion > ModuleVersionMinor {
		return &VersionError{
			Code: ErrorModMinorVersion,
			Got:  strconv.Itoa(int(h.ModMinorVersion)),
			Want: "<= " + strconv.Itoa(ModuleVersionMinor),
		}
	}
	major, minor, ok := Expected(h.Kind)
	if !ok {
		return &VersionError{Code: ErrorUnknownModuleType, Got: h.Kind.String()}
	}
	if h.CompMajorVersion != major {
		return &VersionError{
			Code: ErrorCompMajorVersion,
			Got:  strconv.Itoa(int(h.CompMajorVersion)),
			Want: strconv.Itoa(int(major)),
		}
	}
	if h.CompMinorVersion < minor {
		return &VersionError{
			Code: ErrorCompMinorVersion,
			Got:  strconv.Itoa(int(h.CompMinorVersion)),
			Want: ">= " + strconv.Itoa(int(minor)),
		}
	}
	return nil
}
