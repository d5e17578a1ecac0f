package memory

import "airport-cyber-crisis/internal/domain"

// AirportScenarios returns the built-in ten airport incident-response scenarios.
func AirportScenarios() []domain.Question {
	return []domain.Question{
		{
			ID:     1,
			Prompt: `A suspicious Wi-Fi network named "Airport_Guest_FREE" appears near the gate. Several staff connect and report slow systems. What's your first action?`,
			Choices: []string{
				"Block the SSID at the airport Wi-Fi controller and kick connected clients",
				"Notify passengers to avoid the Wi-Fi and post signs",
				"Disconnect and isolate affected staff devices from the network",
				"Scan the network with an unauthenticated tool to enumerate devices",
			},
			Correct:     2,
			Explanation: "Isolate affected devices to stop spread and preserve evidence before broad changes.",
		},
		{
			ID:     2,
			Prompt: "An employee reports receiving an email requesting payroll info with a spoofed lookalike domain. What is priority?",
			Choices: []string{
				"Delete the email and move on",
				"Reset the employee's password immediately",
				"Quarantine the email and preserve headers for analysis",
				"Publish the email contents to staff to warn them",
			},
			Correct:     2,
			Explanation: "Preserve email headers and quarantine for investigation; resetting only for confirmed compromise.",
		},
		{
			ID:     3,
			Prompt: "Flight display screens show incorrect schedules and images have been replaced. What does this indicate and your immediate step?",
			Choices: []string{
				"Hardware failure, reboot displays",
				"Defacement, take displays offline and collect logs",
				"Normal update, wait 24 hours",
				"Contact the display vendor only",
			},
			Correct:     1,
			Explanation: "Defacement suggests compromise of the display system; take affected systems offline to contain and collect logs.",
		},
		{
			ID:     4,
			Prompt: "Security cameras are reporting intermittent disconnects. You find malware beaconing from a camera IP. Next?",
			Choices: []string{
				"Power off all cameras",
				"Isolate the camera network segment and capture network traffic",
				"Replace the camera firmware immediately",
				"Ignore; cameras are low priority",
			},
			Correct:     1,
			Explanation: "Isolate and capture traffic to analyze the threat and scope before destructive actions.",
		},
		{
			ID:     5,
			Prompt: "A vendor working on the Baggage Handling System reports they're locked out and see ransom notes. What's next?",
			Choices: []string{
				"Pay the ransom to restore operations quickly",
				"Activate business continuity plans and isolate infected systems",
				"Shut down the airport operations entirely",
				"Publicly name the vendor as incompetent",
			},
			Correct:     1,
			Explanation: "Activate continuity plans and isolate infected systems; paying ransom is not the immediate step.",
		},
		{
			ID:     6,
			Prompt: "Passenger data export shows unusual volume. You suspect data exfiltration. Which is highest priority?",
			Choices: []string{
				"Notify regulators immediately",
				"Identify and contain the exfiltration path, preserve logs",
				"Delete the exported files",
				"Ask the passenger to confirm their data was exported",
			},
			Correct:     1,
			Explanation: "Containment and evidence preservation are urgent before notifications.",
		},
		{
			ID:     7,
			Prompt: "A technician plugged an unknown USB into a ground operations laptop; it started installing software. What do you do?",
			Choices: []string{
				"Wipe the laptop immediately",
				"Isolate the laptop, image drive, and investigate",
				"Install antivirus and run a quick scan",
				"Ignore if laptop seems to run fine",
			},
			Correct:     1,
			Explanation: "Isolate and image for forensic analysis to determine scope and preserve evidence.",
		},
		{
			ID:     8,
			Prompt: "A false identity credential was used to access the staff lounge. Access logs show badge cloning. Best response?",
			Choices: []string{
				"Reissue badges to all staff",
				"Audit access logs, remove cloned badges, increase physical checks",
				"Close staff lounge",
				"Disable all badge readers permanently",
			},
			Correct:     1,
			Explanation: "Audit and remove the cloned credentials and tighten physical checks; broad disabling is disruptive.",
		},
		{
			ID:     9,
			Prompt: "You find an exposed admin interface to the airport's HVAC on the public internet. Immediate action?",
			Choices: []string{
				"Contact HVAC vendor and leave it",
				"Block public access at the network edge and notify stakeholders",
				"Use the admin interface to change settings to safe defaults",
				"Create an exploit to test it",
			},
			Correct:     1,
			Explanation: "Block public access immediately to prevent misuse, then coordinate with vendor.",
		},
		{
			ID:     10,
			Prompt: "Threat intel shows targeted phishing campaign aimed at ground staff. How to reduce impact?",
			Choices: []string{
				"Run a phishing awareness and simulated campaign immediately",
				"Disable all email to ground staff",
				"Fire the ground staff",
				"Ignore until an incident occurs",
			},
			Correct:     0,
			Explanation: "Run awareness combined with simulated phishing to reduce susceptibility.",
		},
	}
}
