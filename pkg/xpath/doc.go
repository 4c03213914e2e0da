// Package xpath parses the XPath 1.0 expressions carried by YANG when and
// must statements, leafref path arguments and schema node identifiers. It
// builds syntax trees only; expressions are never evaluated.
package xpath
