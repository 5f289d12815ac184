package packaging

// Exit statuses shared by the shadow-utils tools.
const (
	// groupadd and useradd: the name is already in use.
	exitNameInUse = 9
	// userdel and groupdel: the name does not exist.
	exitNameMissing = 6
)

// createAccounts adds the exporter group and then the system user whose
// primary group it is. Either may already exist.
func (ins *Installer) createAccounts() {
	ins.logger.Debug("creating exporter group", "group", ins.cfg.Group)
	ins.observe(ins.runner.Run("groupadd", ins.cfg.Group), exitNameInUse)

	ins.logger.Debug("creating exporter user", "user", ins.cfg.User, "home", ins.cfg.DataDir)
	ins.observe(ins.runner.Run("useradd",
		"--system",
		"--home-dir", ins.cfg.DataDir,
		"--gid", ins.cfg.Group,
		"--shell", ins.cfg.NologinShell,
		ins.cfg.User,
	), exitNameInUse)
}

// removeAccounts deletes the exporter user and then its group.
func (ins *Installer) removeAccounts() {
	ins.observe(ins.runner.Run("userdel", ins.cfg.User), exitNameMissing)
	ins.observe(ins.runner.Run("groupdel", ins.cfg.Group), exitNameMissing)
}
