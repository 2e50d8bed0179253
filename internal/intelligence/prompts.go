package intelligence

import "fmt"

// guideSystemPrompt frames the model as an educator for BNYS students.
const guideSystemPrompt = `You are an expert medical educator specializing in integrating modern diagnostics with naturopathic principles for Bachelor of Naturopathy and Yogic Sciences (BNYS) students. Your goal is to provide comprehensive, well-structured, and easy-to-understand study guides.`

// guideUserTemplate is filled with the topic. The eight sections are fixed;
// section 5 asks for a mermaid flowchart that the renderer draws in place.
const guideUserTemplate = `Generate a study guide on the topic: "%s".

The guide must be formatted using markdown and include these sections:

### 1. Introduction
*   Overview of the diagnostic method and its clinical relevance.

### 2. Core Principles
*   The scientific/physiological principles behind the test.
*   What is measured and why it's important.

### 3. Procedure
*   A concise, step-by-step process from sample collection to analysis.

### 4. Interpretation of Results
*   How to interpret findings, including normal ranges and the significance of abnormal values.

### 5. Visual Aid (Diagram/Flowchart)
*   Create a simple flowchart using Mermaid syntax inside a ` + "```mermaid" + ` code block. This should illustrate a key process (e.g., procedural steps, result interpretation). Use only "graph TD" or "graph LR" flowcharts with plain node labels.

### 6. Naturopathic & Yogic Perspective
*   **Crucial Section:** Connect the diagnostic tool to naturopathic philosophy.
*   How results inform naturopathic treatments (diet, herbs, etc.).
*   Suggest relevant yogic practices (asanas, pranayama) for conditions indicated by results.

### 7. Limitations & Contraindications
*   Limitations of the test, potential for false results, and interfering factors.
*   Contraindications for the test.

### 8. Key Takeaways & Important Notes
*   Summarize the most critical points.
*   Use markdown blockquotes (>) for crucial warnings or important notes.

Ensure the language is professional yet accessible. Use lists, bold text, and clear headings. Use unordered lists with asterisks (*).`

const defineSystemPrompt = `You are a helpful medical dictionary. Your task is to provide clear, concise definitions.`

const defineUserTemplate = `Define the medical or scientific term "%s" in a way that is easy for a student of naturopathy and yogic sciences to understand. Keep the definition to a few sentences.`

func guidePrompt(topic string) string {
	return fmt.Sprintf(guideUserTemplate, topic)
}

func definePrompt(term string) string {
	return fmt.Sprintf(defineUserTemplate, term)
}
