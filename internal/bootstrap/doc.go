// Package bootstrap provisions a development host.
//
// The machine is reached over a k0sproject/rig localhost connection,
// which resolves its os-release identity. OS modules registered with the
// rig registry map that identity to a family:
//
//	wolfi    ID=wolfi or chainguard               apk add
//	debian   ID=debian, ubuntu or ID_LIKE debian  apt-get install -y
//
// On debian, melange and yam are not packaged and are built with
// "go install" into $HOME/go/bin, which is appended to PATH.
//
// Package installs and group changes run through rig's sudo option, which
// is a no-op for root. When the user is not in the docker group they are
// added and, unless disabled, the process is replaced by "newgrp docker".
package bootstrap
